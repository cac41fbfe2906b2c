package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/mifops/gmao-core/internal/auth"
	"github.com/mifops/gmao-core/internal/db"
	"github.com/mifops/gmao-core/internal/handlers"
	"github.com/mifops/gmao-core/internal/middleware"
	"github.com/mifops/gmao-core/internal/models"
	"github.com/mifops/gmao-core/internal/notify"
	"github.com/mifops/gmao-core/internal/scheduler"
	"github.com/mifops/gmao-core/internal/workorder"
)

func main() {
	// .env is optional; deployments usually set the environment directly.
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logrus.SetLevel(level)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	client, err := db.ConnectMongo()
	if err != nil {
		logrus.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	database := db.Database(client)

	orders := &db.MongoWorkOrderCollection{Collection: database.Collection(db.WorkOrdersCollection)}
	plans := &db.MongoPlanCollection{Collection: database.Collection(db.PlansCollection)}
	users := &db.MongoUserCollection{Collection: database.Collection(db.UsersCollection)}
	directory := &db.MongoDirectory{
		Equipment:   database.Collection(db.EquipmentCollection),
		Technicians: database.Collection(db.TechniciansCollection),
	}

	var sink notify.Sink = notify.NopSink{}
	if os.Getenv("MQTT_BROKER") != "" {
		mqttSink, err := notify.NewMQTTSink()
		if err != nil {
			logrus.Warnf("MQTT sink unavailable, events will not be published: %v", err)
		} else {
			sink = mqttSink
			defer mqttSink.Close()
		}
	}

	workOrderService := workorder.NewService(orders, directory, sink)
	schedulerService := scheduler.NewService(plans, directory, sink, workOrderService)

	authService, err := auth.NewService()
	if err != nil {
		logrus.Fatalf("Failed to initialize auth service: %v", err)
	}

	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()

	authHandler := handlers.NewAuthHandler(authService, users)
	workOrderHandler := handlers.NewWorkOrderHandler(workOrderService, orders)
	planHandler := handlers.NewPlanHandler(schedulerService)
	directoryHandler := handlers.NewDirectoryHandler(directory)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("GET /api/auth/profile", authHandler.GetProfile)
	mux.HandleFunc("PUT /api/auth/profile", authHandler.UpdateProfile)
	mux.HandleFunc("POST /api/auth/change-password", authHandler.ChangePassword)
	mux.Handle("GET /api/auth/users",
		authMiddleware.RequireRole(models.RoleAdmin)(http.HandlerFunc(authHandler.ListUsers)))

	mux.HandleFunc("POST /api/workorders", workOrderHandler.Create)
	mux.HandleFunc("GET /api/workorders", workOrderHandler.List)
	mux.HandleFunc("GET /api/workorders/{id}", workOrderHandler.Get)
	mux.HandleFunc("POST /api/workorders/{id}/transition", workOrderHandler.Transition)

	mux.Handle("POST /api/plans",
		authMiddleware.RequireRole(models.RoleResponsible)(http.HandlerFunc(planHandler.Create)))
	mux.HandleFunc("GET /api/plans", planHandler.List)
	mux.HandleFunc("GET /api/plans/{id}", planHandler.Get)
	mux.Handle("POST /api/plans/{id}/executed",
		authMiddleware.RequireCapability(models.ActionComplete)(http.HandlerFunc(planHandler.MarkExecuted)))
	mux.Handle("POST /api/plans/{id}/deactivate",
		authMiddleware.RequireRole(models.RoleResponsible)(http.HandlerFunc(planHandler.Deactivate)))
	mux.Handle("POST /api/plans/{id}/reactivate",
		authMiddleware.RequireRole(models.RoleResponsible)(http.HandlerFunc(planHandler.Reactivate)))

	mux.Handle("POST /api/equipment",
		authMiddleware.RequireRole(models.RoleResponsible)(http.HandlerFunc(directoryHandler.CreateEquipment)))
	mux.HandleFunc("GET /api/equipment", directoryHandler.ListEquipment)
	mux.HandleFunc("GET /api/equipment/{id}", directoryHandler.GetEquipment)
	mux.Handle("POST /api/technicians",
		authMiddleware.RequireRole(models.RoleResponsible)(http.HandlerFunc(directoryHandler.CreateTechnician)))
	mux.HandleFunc("GET /api/technicians", directoryHandler.ListTechnicians)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	handler := rateLimiter.RateLimit(100, 60)(authMiddleware.Authenticate(mux))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logrus.Infof("HTTP server listening on :%s", port)
	logrus.Fatal(http.ListenAndServe(":"+port, handler))
}
