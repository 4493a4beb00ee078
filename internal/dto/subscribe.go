package dto

import "github.com/torqlabs/torq-news/internal/domain"

type SubscribeRequest struct {
	Email string `json:"email" validate:"required"`
}

type SubscribeResponse struct {
	Success bool   `json:"success"`
	Backend string `json:"backend,omitempty"`
	Message string `json:"message"`
}

func NewSubscribeResponse(r domain.SubscribeResult) SubscribeResponse {
	return SubscribeResponse{
		Success: r.Success,
		Backend: string(r.Backend),
		Message: r.Message,
	}
}

type SubscriberCountResponse struct {
	Count int64 `json:"count"`
}
