package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinibook/clinic-api/internal/booking"
	"github.com/clinibook/clinic-api/internal/config"
	"github.com/clinibook/clinic-api/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestHandler() *Handler {
	cfg := &config.Config{
		AdminEmail:    "admin@clinic.test",
		AdminPassword: "super-secret",
	}
	return NewHandler(nil, nil, cfg, zerolog.Nop())
}

func postJSON(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginAdmin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	h := newTestHandler()
	r := gin.New()
	r.POST("/api/admin/login", h.LoginAdmin)

	w := postJSON(r, "/api/admin/login", gin.H{
		"email":    "admin@clinic.test",
		"password": "super-secret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])

	w = postJSON(r, "/api/admin/login", gin.H{
		"email":    "admin@clinic.test",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFailErrStatusMapping(t *testing.T) {
	h := newTestHandler()

	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: bad input", booking.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: not yours", booking.ErrUnauthorized), http.StatusForbidden},
		{fmt.Errorf("%w: missing", booking.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: slot taken", booking.ErrConflict), http.StatusConflict},
		{fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

		h.failErr(c, tc.err)
		assert.Equal(t, tc.want, w.Code, "error %v", tc.err)
	}
}

func TestValidateDiagnosis(t *testing.T) {
	valid := diagnosisRequest{
		Symptoms:   []string{"toothache"},
		Diagnosis:  "Caries",
		Treatments: []string{"filling"},
		Medications: []models.Medication{
			{Name: "Ibuprofen", Dosage: "400mg", Duration: "5 days", Price: 12.5},
		},
	}
	assert.Empty(t, validateDiagnosis(valid))

	noSymptoms := valid
	noSymptoms.Symptoms = nil
	assert.NotEmpty(t, validateDiagnosis(noSymptoms))

	noDosage := valid
	noDosage.Medications = []models.Medication{{Name: "Ibuprofen", Duration: "5 days"}}
	assert.NotEmpty(t, validateDiagnosis(noDosage))

	negativePrice := valid
	negativePrice.Medications = []models.Medication{
		{Name: "Ibuprofen", Dosage: "400mg", Duration: "5 days", Price: -1},
	}
	assert.NotEmpty(t, validateDiagnosis(negativePrice))
}
