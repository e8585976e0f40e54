package models

import (
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

// Request модели

// CreateResourceRequest запрос на создание ресурса
type CreateResourceRequest struct {
	AdminID       int64   `json:"adminId"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Description   *string `json:"description,omitempty"`
	TotalCapacity int     `json:"totalCapacity"`
	CapacityUnit  string  `json:"capacityUnit"`
	IsIndivisible bool    `json:"isIndivisible"`
	MinAllocation *int    `json:"minAllocation,omitempty"`
	MaxAllocation *int    `json:"maxAllocation,omitempty"`
	Status        *string `json:"status,omitempty"` // По умолчанию available
}

// UpdateResourceRequest запрос на частичное обновление ресурса
type UpdateResourceRequest struct {
	AdminID       int64   `json:"adminId"`
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	TotalCapacity *int    `json:"totalCapacity,omitempty"`
	MinAllocation *int    `json:"minAllocation,omitempty"`
	MaxAllocation *int    `json:"maxAllocation,omitempty"`
	Status        *string `json:"status,omitempty"`
	IsActive      *bool   `json:"isActive,omitempty"`
}

// ListResourcesRequest запрос на получение списка ресурсов
type ListResourcesRequest struct {
	OnlyActive bool `json:"onlyActive"`
}

// Response модели

// ResourceResponse ответ с данными ресурса
type ResourceResponse struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Description   *string `json:"description,omitempty"`
	TotalCapacity int     `json:"totalCapacity"`
	CapacityUnit  string  `json:"capacityUnit"`
	IsIndivisible bool    `json:"isIndivisible"`
	MinAllocation *int    `json:"minAllocation,omitempty"`
	MaxAllocation *int    `json:"maxAllocation,omitempty"`
	Status        string  `json:"status"`
	IsActive      bool    `json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ResourceListResponse ответ со списком ресурсов
type ResourceListResponse struct {
	Resources []ResourceResponse `json:"resources"`
}

// Методы конвертации

// FromDomainResource конвертирует domain модель в DTO
func FromDomainResource(r *domain.Resource) *ResourceResponse {
	if r == nil {
		return nil
	}

	return &ResourceResponse{
		ID:            r.ID,
		Name:          r.Name,
		Type:          r.Type,
		Description:   r.Description,
		TotalCapacity: r.TotalCapacity,
		CapacityUnit:  r.CapacityUnit,
		IsIndivisible: r.IsIndivisible,
		MinAllocation: r.MinAllocation,
		MaxAllocation: r.MaxAllocation,
		Status:        string(r.Status),
		IsActive:      r.IsActive,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// FromDomainResourceList конвертирует список domain моделей в DTO
func FromDomainResourceList(resources []*domain.Resource) *ResourceListResponse {
	if resources == nil {
		return &ResourceListResponse{
			Resources: []ResourceResponse{},
		}
	}

	resp := &ResourceListResponse{
		Resources: make([]ResourceResponse, len(resources)),
	}

	for i, resource := range resources {
		if resourceResp := FromDomainResource(resource); resourceResp != nil {
			resp.Resources[i] = *resourceResp
		}
	}

	return resp
}
