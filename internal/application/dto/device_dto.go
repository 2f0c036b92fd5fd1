package dto

import "time"

// DeviceResponse salida de un dispositivo.
type DeviceResponse struct {
	ID          string    `json:"id"`
	DeviceID    string    `json:"deviceId"`
	UserID      string    `json:"userId"`
	Description string    `json:"description"`
	Verified    bool      `json:"verified"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DeviceToggleResponse salida de verify/unverify. Status es VERIFIED, ALREADY_VERIFIED,
// UNVERIFIED o ALREADY_UNVERIFIED; los "ALREADY_*" no son errores.
type DeviceToggleResponse struct {
	DeviceID        string `json:"deviceId"`
	Status          string `json:"status"`
	Verified        bool   `json:"verified"`
	SessionsDeleted int64  `json:"sessionsDeleted"`
	Message         string `json:"message"`
}

// DeviceListRequest filtros del listado de dispositivos.
type DeviceListRequest struct {
	PageRequest
	Status string `query:"status"` // all | pending | verified
}

// DeviceListResponse página de dispositivos.
type DeviceListResponse struct {
	Items []DeviceResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
