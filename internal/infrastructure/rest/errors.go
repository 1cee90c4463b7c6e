package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

const genericErrorMsg = "ocurrió un error inesperado, intenta de nuevo"

// maxPlainBody tope de caracteres al usar un cuerpo de texto plano como
// mensaje (evita volcar páginas HTML de error completas en un toast).
const maxPlainBody = 200

// APIError respuesta no-2xx del backend ya normalizada para la UI.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %d: %s", e.Status, e.Message)
}

func newAPIError(resp *Response) *APIError {
	return &APIError{Status: resp.Status, Message: ExtractMessage(resp.Body)}
}

// ExtractMessage extrae el mensaje mostrable de un cuerpo de error.
// Prioridad: cuerpo string, campo detail, campo message, primer elemento de
// un array, primer error de arrays por campo (ej. {"email": [...]}) y por
// último un mensaje genérico. Los campos se recorren en orden alfabético
// para que el resultado sea determinista.
func ExtractMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return genericErrorMsg
	}

	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		// Texto plano (o HTML de un proxy): se usa tal cual si es corto.
		if len(trimmed) <= maxPlainBody {
			return string(trimmed)
		}
		return genericErrorMsg
	}

	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
	case []any:
		if len(t) > 0 {
			if s, ok := t[0].(string); ok && s != "" {
				return s
			}
		}
	case map[string]any:
		if s, ok := t["detail"].(string); ok && s != "" {
			return s
		}
		if s, ok := t["message"].(string); ok && s != "" {
			return s
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			arr, ok := t[k].([]any)
			if !ok || len(arr) == 0 {
				continue
			}
			if s, ok := arr[0].(string); ok && s != "" {
				return s
			}
		}
	}
	return genericErrorMsg
}
