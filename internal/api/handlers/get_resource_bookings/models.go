package get_resource_bookings

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/service/bookings/models"
)

// ToServiceRequest собирает запрос к сервису из path и query параметров
func ToServiceRequest(resourceID, callerID int64, fromStr, toStr, statusStr, includeInactiveStr string) (*models.GetResourceBookingsRequest, error) {
	req := &models.GetResourceBookingsRequest{
		ResourceID: resourceID,
		CallerID:   callerID,
	}

	if fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return nil, err
		}
		req.From = &from
	}

	if toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			return nil, err
		}
		req.To = &to
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, err
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
