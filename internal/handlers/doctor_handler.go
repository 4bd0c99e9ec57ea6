package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clinibook/clinic-api/internal/booking"
	"github.com/clinibook/clinic-api/internal/models"
	"github.com/clinibook/clinic-api/internal/schedule"
)

// DoctorList returns the public doctor directory, credentials stripped.
func (h *Handler) DoctorList(c *gin.Context) {
	cur, err := h.DB.Collection("doctors").Find(c.Request.Context(), bson.M{})
	if err != nil {
		h.failErr(c, err)
		return
	}

	var docs []models.Doctor
	if err := cur.All(c.Request.Context(), &docs); err != nil {
		h.failErr(c, err)
		return
	}

	public := make([]models.Doctor, 0, len(docs))
	for _, d := range docs {
		public = append(public, d.PublicView())
	}
	ok(c, gin.H{"doctors": public})
}

// DoctorSlots computes the doctor's bookable slots for the next seven days.
func (h *Handler) DoctorSlots(c *gin.Context) {
	did, okParam := paramObjectID(c, "id")
	if !okParam {
		return
	}

	var doc models.Doctor
	err := h.DB.Collection("doctors").FindOne(c.Request.Context(), bson.M{"_id": did}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		fail(c, http.StatusNotFound, "Doctor not found")
		return
	}
	if err != nil {
		h.failErr(c, err)
		return
	}

	ok(c, gin.H{"slots": schedule.AvailableSlots(doc, time.Now())})
}

// DoctorProfile returns the authenticated doctor's own profile.
func (h *Handler) DoctorProfile(c *gin.Context) {
	did, okID := docID(c)
	if !okID {
		return
	}

	var doc models.Doctor
	err := h.DB.Collection("doctors").FindOne(c.Request.Context(), bson.M{"_id": did}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		fail(c, http.StatusNotFound, "Doctor not found")
		return
	}
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, gin.H{"profileData": doc})
}

type updateDoctorProfileRequest struct {
	Fees      float64        `json:"fees"`
	Address   models.Address `json:"address"`
	Available bool           `json:"available"`
	About     string         `json:"about"`
}

// UpdateDoctorProfile edits the fields a doctor manages themselves.
func (h *Handler) UpdateDoctorProfile(c *gin.Context) {
	did, okID := docID(c)
	if !okID {
		return
	}

	var req updateDoctorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	update := bson.M{
		"fees":      req.Fees,
		"address":   req.Address,
		"available": req.Available,
		"about":     req.About,
	}
	res, err := h.DB.Collection("doctors").UpdateOne(c.Request.Context(), bson.M{"_id": did}, bson.M{"$set": update})
	if err != nil {
		h.failErr(c, err)
		return
	}
	if res.MatchedCount == 0 {
		fail(c, http.StatusNotFound, "Doctor not found")
		return
	}
	ok(c, gin.H{"message": "Profile updated"})
}

// DoctorAppointments lists every appointment booked with this doctor,
// newest first.
func (h *Handler) DoctorAppointments(c *gin.Context) {
	did, okID := docID(c)
	if !okID {
		return
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := h.DB.Collection("appointments").Find(c.Request.Context(), bson.M{"docId": did}, opts)
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

// MedicalRecords lists this doctor's active, paid appointments, the set a
// diagnosis may be written against.
func (h *Handler) MedicalRecords(c *gin.Context) {
	did, okID := docID(c)
	if !okID {
		return
	}

	filter := bson.M{
		"docId":         did,
		"cancelled":     bson.M{"$ne": true},
		"paymentStatus": models.PaymentConfirmed,
	}
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

// DoctorCancelAppointment cancels one of this doctor's appointments.
func (h *Handler) DoctorCancelAppointment(c *gin.Context) {
	did, okID := docID(c)
	if !okID {
		return
	}
	aptID, okReq := h.bindAppointmentID(c)
	if !okReq {
		return
	}

	actor := booking.Actor{ID: did, Role: booking.RoleDoctor}
	if err := h.Booking.Cancel(c.Request.Context(), aptID, actor); err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, gin.H{"message": "Appointment cancelled"})
}

type scheduleRequestBody struct {
	Schedule map[string][]models.ScheduleEntry `json:"schedule"`
}

// RequestWorkingSchedule submits a proposed working schedule for admin
// approval. A later submission replaces the pending one.
func (h *Handler) RequestWorkingSchedule(c *gin.Context) {
	did, okID := docID(c)
	if !okID {
		return
	}

	var req scheduleRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Schedule) == 0 {
		fail(c, http.StatusBadRequest, "Schedule is empty")
		return
	}

	if err := h.Booking.SubmitScheduleRequest(c.Request.Context(), did, req.Schedule); err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, gin.H{"message": "Schedule request submitted"})
}

// DoctorTemplates returns the doctor's saved diagnosis templates.
func (h *Handler) DoctorTemplates(c *gin.Context) {
	did, okID := docID(c)
	if !okID {
		return
	}

	var doc models.Doctor
	err := h.DB.Collection("doctors").FindOne(c.Request.Context(), bson.M{"_id": did}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		fail(c, http.StatusNotFound, "Doctor not found")
		return
	}
	if err != nil {
		h.failErr(c, err)
		return
	}

	templates := doc.DiagnosisTemplates
	if templates == nil {
		templates = []models.DiagnosisTemplate{}
	}
	ok(c, gin.H{"templates": templates})
}

type saveTemplateRequest struct {
	Template models.DiagnosisTemplate `json:"template"`
}

// SaveDoctorTemplate appends a diagnosis template to the doctor's list.
func (h *Handler) SaveDoctorTemplate(c *gin.Context) {
	did, okID := docID(c)
	if !okID {
		return
	}

	var req saveTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Template.Name == "" {
		fail(c, http.StatusBadRequest, "Template name is required")
		return
	}

	update := bson.M{"$push": bson.M{"diagnosisTemplates": req.Template}}
	res, err := h.DB.Collection("doctors").UpdateOne(c.Request.Context(), bson.M{"_id": did}, update)
	if err != nil {
		h.failErr(c, err)
		return
	}
	if res.MatchedCount == 0 {
		fail(c, http.StatusNotFound, "Doctor not found")
		return
	}
	created(c, gin.H{"message": "Template saved"})
}
