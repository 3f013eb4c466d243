package api

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

type AddressResponse struct {
	Address string `json:"address" example:"1f9c3a..."`
}

type VerificationResponse struct {
	Verified bool `json:"verified"`
}
