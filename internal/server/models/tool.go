package models

import (
	"strings"
	"time"
)

// ToolStatus is the closed set of tool states. Status rows may carry either
// the English code or the German display name.
type ToolStatus string

const (
	StatusAvailable   ToolStatus = "available"
	StatusInUse       ToolStatus = "in_use"
	StatusMaintenance ToolStatus = "maintenance"
	StatusRetired     ToolStatus = "retired"
	StatusUnknown     ToolStatus = "unknown"
)

var statusLabels = map[ToolStatus]string{
	StatusAvailable:   "Verfügbar",
	StatusInUse:       "In Verwendung",
	StatusMaintenance: "Wartung",
	StatusRetired:     "Ausgemustert",
}

// ParseToolStatus accepts codes ("in_use") and display names ("In Verwendung").
func ParseToolStatus(s string) ToolStatus {
	v := strings.ToLower(strings.TrimSpace(s))
	for st, label := range statusLabels {
		if v == string(st) || v == strings.ToLower(label) {
			return st
		}
	}
	return StatusUnknown
}

// Label returns the German display name, or the raw code when none exists.
func (s ToolStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

type ToolCategory string

const (
	CategoryMechanical ToolCategory = "mechanical"
	CategoryElectrical ToolCategory = "electrical"
	CategoryDiagnostic ToolCategory = "diagnostic"
	CategorySafety     ToolCategory = "safety"
	CategorySpecialty  ToolCategory = "specialty"
	CategoryUnknown    ToolCategory = "unknown"
)

var categoryLabels = map[ToolCategory]string{
	CategoryMechanical: "Mechanisch",
	CategoryElectrical: "Elektrisch",
	CategoryDiagnostic: "Diagnose",
	CategorySafety:     "Sicherheit",
	CategorySpecialty:  "Spezial",
}

func ParseToolCategory(s string) ToolCategory {
	v := strings.ToLower(strings.TrimSpace(s))
	for c, label := range categoryLabels {
		if v == string(c) || v == strings.ToLower(label) {
			return c
		}
	}
	return CategoryUnknown
}

func (c ToolCategory) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Ref is an optional reference to a lookup row (type, status, user).
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Tool is one inventory record with its lookup names resolved.
type Tool struct {
	ID               string       `json:"id"`
	Number           string       `json:"number"`
	Designation      string       `json:"designation"`
	Category         ToolCategory `json:"category"`
	Type             *Ref         `json:"type,omitempty"`
	StatusID         string       `json:"status_id,omitempty"`
	Status           ToolStatus   `json:"status"`
	AssignedUser     *Ref         `json:"assigned_user,omitempty"`
	Application      string       `json:"application,omitempty"`
	OrderNumber      string       `json:"order_number,omitempty"`
	LengthMM         *float64     `json:"length_mm,omitempty"`
	WidthMM          *float64     `json:"width_mm,omitempty"`
	HeightMM         *float64     `json:"height_mm,omitempty"`
	MainMaterial     string       `json:"main_material,omitempty"`
	DemandQuantity   *int64       `json:"demand_quantity,omitempty"`
	PriceEstimateEUR *float64     `json:"price_estimate_eur,omitempty"`
	UnitsSold        int64        `json:"units_sold"`
	Stock            int64        `json:"stock"`
	DocumentKey      string       `json:"-"`
	HasDocument      bool         `json:"has_document"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// NewTool is the input for creating a tool. Lookup references are ids.
type NewTool struct {
	Number           string   `json:"number"`
	Designation      string   `json:"designation"`
	Category         string   `json:"category"`
	TypeID           string   `json:"type_id"`
	StatusID         string   `json:"status_id"`
	AssignedUserID   string   `json:"assigned_user_id"`
	Application      string   `json:"application"`
	OrderNumber      string   `json:"order_number"`
	LengthMM         *float64 `json:"length_mm"`
	WidthMM          *float64 `json:"width_mm"`
	HeightMM         *float64 `json:"height_mm"`
	MainMaterial     string   `json:"main_material"`
	DemandQuantity   *int64   `json:"demand_quantity"`
	PriceEstimateEUR *float64 `json:"price_estimate_eur"`
	UnitsSold        int64    `json:"units_sold"`
	Stock            int64    `json:"stock"`
}
