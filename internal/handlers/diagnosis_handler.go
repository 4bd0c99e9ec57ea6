package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clinibook/clinic-api/internal/models"
)

type diagnosisRequest struct {
	AppointmentID string              `json:"appointmentId"`
	Symptoms      []string            `json:"symptoms"`
	Diagnosis     string              `json:"diagnosis"`
	Treatments    []string            `json:"treatments"`
	Notes         string              `json:"notes"`
	Medications   []models.Medication `json:"medications"`
}

func validateDiagnosis(req diagnosisRequest) string {
	if len(req.Symptoms) == 0 {
		return "At least one symptom is required"
	}
	if req.Diagnosis == "" {
		return "Diagnosis is required"
	}
	if len(req.Treatments) == 0 {
		return "At least one treatment is required"
	}
	for _, m := range req.Medications {
		if m.Name == "" {
			return "Medication name is required"
		}
		if m.Dosage == "" || m.Duration == "" {
			return "Medication dosage and duration are required"
		}
		if m.Price < 0 {
			return "Medication price cannot be negative"
		}
	}
	return ""
}

// CreateDiagnosis writes the medical record for one of this doctor's
// appointments, prices the medication bill and completes the appointment.
func (h *Handler) CreateDiagnosis(c *gin.Context) {
	did, okID := docID(c)
	if !okID {
		return
	}

	var req diagnosisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	aptID, err := primitive.ObjectIDFromHex(req.AppointmentID)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid appointmentId")
		return
	}
	if msg := validateDiagnosis(req); msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}

	var apt models.Appointment
	findErr := h.DB.Collection("appointments").FindOne(c.Request.Context(), bson.M{"_id": aptID}).Decode(&apt)
	if findErr == mongo.ErrNoDocuments {
		fail(c, http.StatusNotFound, "Appointment not found")
		return
	}
	if findErr != nil {
		h.failErr(c, findErr)
		return
	}
	if apt.DocID != did {
		fail(c, http.StatusForbidden, "Not your appointment")
		return
	}
	if apt.Cancelled {
		fail(c, http.StatusConflict, "Appointment is cancelled")
		return
	}
	if apt.DiagnosisID != nil {
		fail(c, http.StatusConflict, "Appointment already has a diagnosis")
		return
	}

	now := time.Now()
	diag := models.Diagnosis{
		ID:            primitive.NewObjectID(),
		AppointmentID: aptID,
		DoctorID:      did,
		PatientID:     apt.UserID,
		Symptoms:      req.Symptoms,
		Diagnosis:     req.Diagnosis,
		Treatments:    req.Treatments,
		Notes:         req.Notes,
		Medications:   req.Medications,
		TotalAmount:   models.TotalMedicationAmount(req.Medications),
		PaymentStatus: models.BillPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := h.DB.Collection("diagnoses").InsertOne(c.Request.Context(), diag); err != nil {
		h.failErr(c, err)
		return
	}

	update := bson.M{"$set": bson.M{
		"diagnosisId": diag.ID,
		"status":      models.StatusCompleted,
		"updatedAt":   now,
	}}
	if _, err := h.DB.Collection("appointments").UpdateOne(c.Request.Context(), bson.M{"_id": aptID}, update); err != nil {
		h.failErr(c, err)
		return
	}
	created(c, gin.H{"message": "Diagnosis recorded", "diagnosis": diag})
}

// GetDiagnosis returns the diagnosis for one of this doctor's appointments.
func (h *Handler) GetDiagnosis(c *gin.Context) {
	did, okID := docID(c)
	if !okID {
		return
	}
	aptID, okParam := paramObjectID(c, "appointmentId")
	if !okParam {
		return
	}

	var diag models.Diagnosis
	err := h.DB.Collection("diagnoses").FindOne(c.Request.Context(), bson.M{"appointmentId": aptID}).Decode(&diag)
	if err == mongo.ErrNoDocuments {
		fail(c, http.StatusNotFound, "No diagnosis for this appointment")
		return
	}
	if err != nil {
		h.failErr(c, err)
		return
	}
	if diag.DoctorID != did {
		fail(c, http.StatusForbidden, "Not your patient record")
		return
	}
	ok(c, gin.H{"diagnosis": diag})
}

// CheckDiagnosis reports whether an appointment already has a diagnosis.
func (h *Handler) CheckDiagnosis(c *gin.Context) {
	if _, okID := docID(c); !okID {
		return
	}
	aptID, okParam := paramObjectID(c, "appointmentId")
	if !okParam {
		return
	}

	count, err := h.DB.Collection("diagnoses").CountDocuments(c.Request.Context(), bson.M{"appointmentId": aptID})
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, gin.H{"exists": count > 0})
}

// UpdateDiagnosis rewrites a diagnosis. The bill total is recomputed from
// the submitted medications; the stored payment status is kept.
func (h *Handler) UpdateDiagnosis(c *gin.Context) {
	did, okID := docID(c)
	if !okID {
		return
	}
	aptID, okParam := paramObjectID(c, "appointmentId")
	if !okParam {
		return
	}

	var req diagnosisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := validateDiagnosis(req); msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}

	var diag models.Diagnosis
	findErr := h.DB.Collection("diagnoses").FindOne(c.Request.Context(), bson.M{"appointmentId": aptID}).Decode(&diag)
	if findErr == mongo.ErrNoDocuments {
		fail(c, http.StatusNotFound, "No diagnosis for this appointment")
		return
	}
	if findErr != nil {
		h.failErr(c, findErr)
		return
	}
	if diag.DoctorID != did {
		fail(c, http.StatusForbidden, "Not your patient record")
		return
	}

	update := bson.M{"$set": bson.M{
		"symptoms":    req.Symptoms,
		"diagnosis":   req.Diagnosis,
		"treatments":  req.Treatments,
		"notes":       req.Notes,
		"medications": req.Medications,
		"totalAmount": models.TotalMedicationAmount(req.Medications),
		"updatedAt":   time.Now(),
	}}
	if _, err := h.DB.Collection("diagnoses").UpdateOne(c.Request.Context(), bson.M{"_id": diag.ID}, update); err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, gin.H{"message": "Diagnosis updated"})
}

// DeleteDiagnosis removes a diagnosis and reopens the appointment.
func (h *Handler) DeleteDiagnosis(c *gin.Context) {
	did, okID := docID(c)
	if !okID {
		return
	}
	aptID, okParam := paramObjectID(c, "appointmentId")
	if !okParam {
		return
	}

	var diag models.Diagnosis
	findErr := h.DB.Collection("diagnoses").FindOne(c.Request.Context(), bson.M{"appointmentId": aptID}).Decode(&diag)
	if findErr == mongo.ErrNoDocuments {
		fail(c, http.StatusNotFound, "No diagnosis for this appointment")
		return
	}
	if findErr != nil {
		h.failErr(c, findErr)
		return
	}
	if diag.DoctorID != did {
		fail(c, http.StatusForbidden, "Not your patient record")
		return
	}

	if _, err := h.DB.Collection("diagnoses").DeleteOne(c.Request.Context(), bson.M{"_id": diag.ID}); err != nil {
		h.failErr(c, err)
		return
	}

	update := bson.M{
		"$unset": bson.M{"diagnosisId": ""},
		"$set":   bson.M{"status": models.StatusPending, "updatedAt": time.Now()},
	}
	if _, err := h.DB.Collection("appointments").UpdateOne(c.Request.Context(), bson.M{"_id": aptID}, update); err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, gin.H{"message": "Diagnosis deleted"})
}

type diagnosisPaymentRequest struct {
	PaymentStatus string `json:"paymentStatus"`
}

// UpdateDiagnosisPayment flips the medication bill between pending and paid.
func (h *Handler) UpdateDiagnosisPayment(c *gin.Context) {
	did, okID := docID(c)
	if !okID {
		return
	}
	aptID, okParam := paramObjectID(c, "appointmentId")
	if !okParam {
		return
	}

	var req diagnosisPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PaymentStatus != models.BillPending && req.PaymentStatus != models.BillPaid {
		fail(c, http.StatusBadRequest, "paymentStatus must be pending or paid")
		return
	}

	var diag models.Diagnosis
	findErr := h.DB.Collection("diagnoses").FindOne(c.Request.Context(), bson.M{"appointmentId": aptID}).Decode(&diag)
	if findErr == mongo.ErrNoDocuments {
		fail(c, http.StatusNotFound, "No diagnosis for this appointment")
		return
	}
	if findErr != nil {
		h.failErr(c, findErr)
		return
	}
	if diag.DoctorID != did {
		fail(c, http.StatusForbidden, "Not your patient record")
		return
	}

	update := bson.M{"$set": bson.M{"paymentStatus": req.PaymentStatus, "updatedAt": time.Now()}}
	if _, err := h.DB.Collection("diagnoses").UpdateOne(c.Request.Context(), bson.M{"_id": diag.ID}, update); err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, gin.H{"message": "Payment status updated"})
}
