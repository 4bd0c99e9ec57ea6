package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clinibook/clinic-api/internal/booking"
	"github.com/clinibook/clinic-api/internal/models"
)

// GetProfile returns the authenticated patient's profile.
func (h *Handler) GetProfile(c *gin.Context) {
	uid, okID := userID(c)
	if !okID {
		return
	}

	var user models.User
	err := h.DB.Collection("users").FindOne(c.Request.Context(), bson.M{"_id": uid}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, gin.H{"userData": user})
}

type updateProfileRequest struct {
	Name    string         `json:"name"`
	Phone   string         `json:"phone"`
	Address models.Address `json:"address"`
	DOB     string         `json:"dob"`
	Gender  string         `json:"gender"`
	Image   string         `json:"image"`
}

// UpdateProfile edits the mutable fields of the patient profile.
func (h *Handler) UpdateProfile(c *gin.Context) {
	uid, okID := userID(c)
	if !okID {
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Phone == "" || req.DOB == "" || req.Gender == "" {
		fail(c, http.StatusBadRequest, "Missing details")
		return
	}

	update := bson.M{
		"name":    req.Name,
		"phone":   req.Phone,
		"address": req.Address,
		"dob":     req.DOB,
		"gender":  req.Gender,
	}
	if req.Image != "" {
		update["image"] = req.Image
	}

	res, err := h.DB.Collection("users").UpdateOne(c.Request.Context(), bson.M{"_id": uid}, bson.M{"$set": update})
	if err != nil {
		h.failErr(c, err)
		return
	}
	if res.MatchedCount == 0 {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	ok(c, gin.H{"message": "Profile updated"})
}

type bookAppointmentRequest struct {
	DocID    string `json:"docId"`
	SlotDate string `json:"slotDate"`
	SlotTime string `json:"slotTime"`
}

// BookAppointment books a slot with a doctor for the authenticated patient.
func (h *Handler) BookAppointment(c *gin.Context) {
	uid, okID := userID(c)
	if !okID {
		return
	}

	var req bookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	did, err := primitive.ObjectIDFromHex(req.DocID)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid docId")
		return
	}

	apt, err := h.Booking.Book(c.Request.Context(), did, uid, req.SlotDate, req.SlotTime)
	if err != nil {
		h.failErr(c, err)
		return
	}
	created(c, gin.H{"message": "Appointment booked", "appointment": apt})
}

// ListAppointments returns the patient's appointments that are not cancelled,
// newest first.
func (h *Handler) ListAppointments(c *gin.Context) {
	uid, okID := userID(c)
	if !okID {
		return
	}

	filter := bson.M{"userId": uid, "cancelled": bson.M{"$ne": true}}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := h.DB.Collection("appointments").Find(c.Request.Context(), filter, opts)
	if err != nil {
		h.failErr(c, err)
		return
	}

	appointments := []models.Appointment{}
	if err := cur.All(c.Request.Context(), &appointments); err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, gin.H{"appointments": appointments})
}

// AppointmentHistory returns the patient's appointments with confirmed
// payment, for the history and receipts view.
func (h *Handler) AppointmentHistory(c *gin.Context) {
	uid, okID := userID(c)
	if !okID {
		return
	}

	filter := bson.M{"userId": uid, "paymentStatus": models.PaymentConfirmed}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := h.DB.Collection("appointments").Find(c.Request.Context(), filter, opts)
	if err != nil {
		h.failErr(c, err)
		return
	}

	appointments := []models.Appointment{}
	if err := cur.All(c.Request.Context(), &appointments); err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, gin.H{"appointments": appointments})
}

type appointmentIDRequest struct {
	AppointmentID string `json:"appointmentId"`
}

func (h *Handler) bindAppointmentID(c *gin.Context) (primitive.ObjectID, bool) {
	var req appointmentIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(req.AppointmentID)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid appointmentId")
		return primitive.NilObjectID, false
	}
	return id, true
}

// CancelAppointment cancels the patient's own appointment and frees the slot.
func (h *Handler) CancelAppointment(c *gin.Context) {
	uid, okID := userID(c)
	if !okID {
		return
	}
	aptID, okReq := h.bindAppointmentID(c)
	if !okReq {
		return
	}

	actor := booking.Actor{ID: uid, Role: booking.RolePatient}
	if err := h.Booking.Cancel(c.Request.Context(), aptID, actor); err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, gin.H{"message": "Appointment cancelled"})
}

// DeleteAppointment removes the patient's own appointment entirely.
func (h *Handler) DeleteAppointment(c *gin.Context) {
	uid, okID := userID(c)
	if !okID {
		return
	}
	aptID, okReq := h.bindAppointmentID(c)
	if !okReq {
		return
	}

	actor := booking.Actor{ID: uid, Role: booking.RolePatient}
	if err := h.Booking.Delete(c.Request.Context(), aptID, actor); err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, gin.H{"message": "Appointment deleted"})
}

// RequestPayment asks the clinic to confirm payment for an appointment.
func (h *Handler) RequestPayment(c *gin.Context) {
	uid, okID := userID(c)
	if !okID {
		return
	}
	aptID, okReq := h.bindAppointmentID(c)
	if !okReq {
		return
	}

	if err := h.Booking.RequestPayment(c.Request.Context(), aptID, uid); err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, gin.H{"message": "Payment requested"})
}

// UserDiagnosis returns the diagnosis attached to one of the patient's own
// appointments.
func (h *Handler) UserDiagnosis(c *gin.Context) {
	uid, okID := userID(c)
	if !okID {
		return
	}
	aptID, okParam := paramObjectID(c, "appointmentId")
	if !okParam {
		return
	}

	var apt models.Appointment
	err := h.DB.Collection("appointments").FindOne(c.Request.Context(), bson.M{"_id": aptID}).Decode(&apt)
	if err == mongo.ErrNoDocuments {
		fail(c, http.StatusNotFound, "Appointment not found")
		return
	}
	if err != nil {
		h.failErr(c, err)
		return
	}
	if apt.UserID != uid {
		fail(c, http.StatusForbidden, "Not your appointment")
		return
	}

	var diag models.Diagnosis
	err = h.DB.Collection("diagnoses").FindOne(c.Request.Context(), bson.M{"appointmentId": aptID}).Decode(&diag)
	if err == mongo.ErrNoDocuments {
		fail(c, http.StatusNotFound, "No diagnosis for this appointment")
		return
	}
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, gin.H{"diagnosis": diag})
}
