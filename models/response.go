// models/response.go
package models

// Response is the envelope every JSON endpoint replies with.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
