package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mifops/gmao-core/internal/db"
	"github.com/mifops/gmao-core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// DirectoryHandler handles equipment and technician directory requests
type DirectoryHandler struct {
	directory *db.MongoDirectory
}

// NewDirectoryHandler creates a new directory handler
func NewDirectoryHandler(directory *db.MongoDirectory) *DirectoryHandler {
	return &DirectoryHandler{
		directory: directory,
	}
}

// CreateEquipment registers a new piece of equipment
func (h *DirectoryHandler) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var eq models.Equipment
	if err := json.Unmarshal(body, &eq); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if eq.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	eq.ID = uuid.New().String()
	eq.CreatedAt = time.Now()
	eq.UpdatedAt = eq.CreatedAt

	if err := h.directory.InsertEquipment(r.Context(), eq); err != nil {
		http.Error(w, "Failed to create equipment", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(eq)
}

// ListEquipment lists all equipment
func (h *DirectoryHandler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	equipment, err := h.directory.FindEquipment(r.Context(), bson.M{})
	if err != nil {
		http.Error(w, "Failed to list equipment", http.StatusInternalServerError)
		return
	}
	if equipment == nil {
		equipment = []models.Equipment{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(equipment)
}

// GetEquipment returns a single piece of equipment by id
func (h *DirectoryHandler) GetEquipment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	eq, err := h.directory.ResolveEquipment(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Equipment not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load equipment", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(eq)
}

// CreateTechnician registers a new technician
func (h *DirectoryHandler) CreateTechnician(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var tech models.Technician
	if err := json.Unmarshal(body, &tech); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if tech.FirstName == "" || tech.LastName == "" {
		http.Error(w, "First name and last name are required", http.StatusBadRequest)
		return
	}

	tech.ID = uuid.New().String()
	tech.Available = true
	tech.CreatedAt = time.Now()
	tech.UpdatedAt = tech.CreatedAt

	if err := h.directory.InsertTechnician(r.Context(), tech); err != nil {
		http.Error(w, "Failed to create technician", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(tech)
}

// ListTechnicians lists all technicians
func (h *DirectoryHandler) ListTechnicians(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	technicians, err := h.directory.FindTechnicians(r.Context(), bson.M{})
	if err != nil {
		http.Error(w, "Failed to list technicians", http.StatusInternalServerError)
		return
	}
	if technicians == nil {
		technicians = []models.Technician{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(technicians)
}
