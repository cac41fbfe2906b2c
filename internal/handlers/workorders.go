package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/mifops/gmao-core/internal/db"
	"github.com/mifops/gmao-core/internal/middleware"
	"github.com/mifops/gmao-core/internal/models"
	"github.com/mifops/gmao-core/internal/workorder"
	"go.mongodb.org/mongo-driver/bson"
)

// WorkOrderHandler handles work-order requests
type WorkOrderHandler struct {
	service *workorder.Service
	orders  db.WorkOrderCollection
}

// NewWorkOrderHandler creates a new work-order handler
func NewWorkOrderHandler(service *workorder.Service, orders db.WorkOrderCollection) *WorkOrderHandler {
	return &WorkOrderHandler{
		service: service,
		orders:  orders,
	}
}

// Create handles work-order creation
func (h *WorkOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req workorder.CreateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	wo, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(wo)
}

// List returns work orders, optionally filtered by status and kind
func (h *WorkOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		if !models.IsValidStatus(models.Status(status)) {
			http.Error(w, "Unknown status filter", http.StatusBadRequest)
			return
		}
		filter["status"] = status
	}
	if kind := r.URL.Query().Get("kind"); kind != "" {
		if !models.IsValidKind(models.Kind(kind)) {
			http.Error(w, "Unknown kind filter", http.StatusBadRequest)
			return
		}
		filter["kind"] = kind
	}

	orders, err := h.orders.FindWorkOrders(r.Context(), filter)
	if err != nil {
		http.Error(w, "Failed to list work orders", http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []models.WorkOrder{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orders)
}

// Get returns a single work order by id
func (h *WorkOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	wo, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wo)
}

// transitionRequest is the wire form of a lifecycle action. The actor
// role comes from the authenticated claims, never from the body.
type transitionRequest struct {
	Action          models.Action `json:"action"`
	TechnicianID    string        `json:"technician_id,omitempty"`
	ActualCost      *float64      `json:"actual_cost,omitempty"`
	ExpectedVersion int64         `json:"expected_version"`
}

// Transition applies a lifecycle action to a work order
func (h *WorkOrderHandler) Transition(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req transitionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	wo, err := h.service.Transition(r.Context(), r.PathValue("id"), workorder.TransitionRequest{
		Action:          req.Action,
		ActorRole:       claims.Role,
		TechnicianID:    req.TechnicianID,
		ActualCost:      req.ActualCost,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wo)
}
