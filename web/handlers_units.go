package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hazyhaar/morph/units"
)

// unitRequest is the JSON body shared by the numeric conversion endpoints.
// Value is any because clients send both numbers and numeric strings.
type unitRequest struct {
	Value    any    `json:"value"`
	FromUnit string `json:"from_unit"`
	ToUnit   string `json:"to_unit"`
}

func decodeUnitRequest(r *http.Request) (unitRequest, float64, error) {
	var req unitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, 0, fmt.Errorf("%w: %v", units.ErrInvalidValue, err)
	}
	value, err := units.ParseValue(req.Value)
	if err != nil {
		return req, 0, err
	}
	return req, value, nil
}

// handleLinear returns the handler for a factor-table domain.
func (s *Server) handleLinear(domain string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, value, err := decodeUnitRequest(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		result, err := units.Convert(domain, value, req.FromUnit, req.ToUnit)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"result":    result,
			"from_unit": req.FromUnit,
			"to_unit":   req.ToUnit,
		})
	}
}

func (s *Server) handleTemperature(w http.ResponseWriter, r *http.Request) {
	req, value, err := decodeUnitRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := units.ConvertTemperature(value, req.FromUnit, req.ToUnit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"result":    result,
		"from_unit": req.FromUnit,
		"to_unit":   req.ToUnit,
	})
}

// handleColor converts between color notations. Body: value, from_format,
// to_format.
func (s *Server) handleColor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value      string `json:"value"`
		FromFormat string `json:"from_format"`
		ToFormat   string `json:"to_format"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", units.ErrInvalidValue, err))
		return
	}

	result, err := units.ConvertColor(req.Value, req.FromFormat, req.ToFormat)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"result":         result,
		"original_value": req.Value,
		"from_format":    req.FromFormat,
		"to_format":      req.ToFormat,
	})
}

// handleCurrency converts an amount between currencies at the current
// exchange rate. from_unit/to_unit carry ISO codes.
func (s *Server) handleCurrency(w http.ResponseWriter, r *http.Request) {
	req, value, err := decodeUnitRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.currency.Convert(r.Context(), value, req.FromUnit, req.ToUnit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"result":        result,
		"from_currency": req.FromUnit,
		"to_currency":   req.ToUnit,
	})
}

// handleTime re-expresses a timestamp in another IANA timezone. from_unit
// and to_unit carry zone names such as "UTC" or "Europe/Paris".
func (s *Server) handleTime(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value    string `json:"value"`
		FromUnit string `json:"from_unit"`
		ToUnit   string `json:"to_unit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", units.ErrInvalidTimestamp, err))
		return
	}

	result, err := units.ConvertTime(req.Value, req.FromUnit, req.ToUnit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"result":        result,
		"from_timezone": req.FromUnit,
		"to_timezone":   req.ToUnit,
	})
}
