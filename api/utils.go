package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"hermannm.dev/sheetlens/log"
	"hermannm.dev/sheetlens/presets"
	"hermannm.dev/wrap"
)

type errorResponse struct {
	Error string `json:"error"`
}

func sendJSON(res http.ResponseWriter, value any) {
	sendJSONWithStatus(res, http.StatusOK, value)
}

func sendJSONWithStatus(res http.ResponseWriter, statusCode int, value any) {
	body, err := json.Marshal(value)
	if err != nil {
		sendServerError(res, err, "failed to serialize response")
		return
	}

	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(statusCode)
	if _, err := res.Write(body); err != nil {
		log.WarnError(err, "failed to write response")
	}
}

func sendClientError(res http.ResponseWriter, err error, message string) {
	sendError(res, http.StatusBadRequest, err, message)
}

func sendNotFound(res http.ResponseWriter, message string) {
	sendError(res, http.StatusNotFound, nil, message)
}

func sendServerError(res http.ResponseWriter, err error, message string) {
	sendError(res, http.StatusInternalServerError, err, message)
}

func sendError(res http.ResponseWriter, statusCode int, err error, message string) {
	if statusCode >= http.StatusInternalServerError {
		log.Error(err, message)
	}

	if err != nil {
		if message == "" {
			message = err.Error()
		} else {
			message = wrap.Error(err, message).Error()
		}
	}

	if statusCode < http.StatusInternalServerError {
		log.Debug("sending client error", "status", statusCode, "error", message)
	}

	body, _ := json.Marshal(errorResponse{Error: message})
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(statusCode)
	_, _ = res.Write(body)
}

// Maps errors from the presets service to the corresponding HTTP errors.
func sendPresetError(res http.ResponseWriter, err error, message string) {
	var validationErr presets.ValidationError
	switch {
	case errors.Is(err, presets.ErrNotFound):
		sendNotFound(res, err.Error())
	case errors.As(err, &validationErr):
		sendClientError(res, err, message)
	default:
		sendServerError(res, err, message)
	}
}

func decodeJSONBody(req *http.Request, target any) error {
	decoder := json.NewDecoder(req.Body)
	if err := decoder.Decode(target); err != nil {
		return wrap.Error(err, "failed to parse request body")
	}
	return nil
}
