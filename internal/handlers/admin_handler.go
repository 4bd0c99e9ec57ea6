package handlers

import (
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clinibook/clinic-api/internal/booking"
	"github.com/clinibook/clinic-api/internal/models"
	"github.com/clinibook/clinic-api/internal/utils"
)

type addDoctorRequest struct {
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Password   string         `json:"password"`
	Image      string         `json:"image"`
	Speciality string         `json:"speciality"`
	Degree     string         `json:"degree"`
	Experience string         `json:"experience"`
	About      string         `json:"about"`
	Fees       float64        `json:"fees"`
	Address    models.Address `json:"address"`
}

// AddDoctor creates a doctor account. New doctors start available with empty
// scheduling state.
func (h *Handler) AddDoctor(c *gin.Context) {
	var req addDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if req.Name == "" || req.Email == "" || req.Password == "" || req.Speciality == "" ||
		req.Degree == "" || req.Experience == "" || req.About == "" {
		fail(c, http.StatusBadRequest, "Missing details")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		fail(c, http.StatusBadRequest, "Please enter a valid email")
		return
	}
	if len(req.Password) < 8 {
		fail(c, http.StatusBadRequest, "Please enter a strong password")
		return
	}

	doctors := h.DB.Collection("doctors")
	count, err := doctors.CountDocuments(c.Request.Context(), bson.M{"email": req.Email})
	if err != nil {
		h.failErr(c, err)
		return
	}
	if count > 0 {
		fail(c, http.StatusConflict, "A doctor with this email already exists")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		h.failErr(c, err)
		return
	}

	doc := models.Doctor{
		ID:                     primitive.NewObjectID(),
		Name:                   req.Name,
		Email:                  req.Email,
		Password:               hashed,
		Image:                  req.Image,
		Speciality:             req.Speciality,
		Degree:                 req.Degree,
		Experience:             req.Experience,
		About:                  req.About,
		Fees:                   req.Fees,
		Available:              true,
		Address:                req.Address,
		Date:                   time.Now(),
		SlotsBooked:            map[string][]string{},
		WorkingSchedule:        map[string][]models.ScheduleEntry{},
		WorkingScheduleRequest: map[string][]models.ScheduleEntry{},
	}
	if _, err := doctors.InsertOne(c.Request.Context(), doc); err != nil {
		h.failErr(c, err)
		return
	}
	created(c, gin.H{"message": "Doctor added"})
}

// AllDoctors lists every doctor for the admin panel. Emails stay visible
// here; password hashes never leave the model.
func (h *Handler) AllDoctors(c *gin.Context) {
	cur, err := h.DB.Collection("doctors").Find(c.Request.Context(), bson.M{})
	if err != nil {
		h.failErr(c, err)
		return
	}

	doctors := []models.Doctor{}
	if err := cur.All(c.Request.Context(), &doctors); err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, gin.H{"doctors": doctors})
}

type changeAvailabilityRequest struct {
	DocID string `json:"docId"`
}

// ChangeAvailability toggles whether a doctor accepts new bookings.
func (h *Handler) ChangeAvailability(c *gin.Context) {
	var req changeAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	did, err := primitive.ObjectIDFromHex(req.DocID)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid docId")
		return
	}

	var doc models.Doctor
	findErr := h.DB.Collection("doctors").FindOne(c.Request.Context(), bson.M{"_id": did}).Decode(&doc)
	if findErr == mongo.ErrNoDocuments {
		fail(c, http.StatusNotFound, "Doctor not found")
		return
	}
	if findErr != nil {
		h.failErr(c, findErr)
		return
	}

	update := bson.M{"$set": bson.M{"available": !doc.Available}}
	if _, err := h.DB.Collection("doctors").UpdateOne(c.Request.Context(), bson.M{"_id": did}, update); err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, gin.H{"message": "Availability changed", "available": !doc.Available})
}

// AdminAppointments lists every appointment in the system, newest first.
func (h *Handler) AdminAppointments(c *gin.Context) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := h.DB.Collection("appointments").Find(c.Request.Context(), bson.M{}, opts)
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

// AdminCancelAppointment cancels any appointment.
func (h *Handler) AdminCancelAppointment(c *gin.Context) {
	aptID, okReq := h.bindAppointmentID(c)
	if !okReq {
		return
	}

	actor := booking.Actor{Role: booking.RoleAdmin}
	if err := h.Booking.Cancel(c.Request.Context(), aptID, actor); err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, gin.H{"message": "Appointment cancelled"})
}

// ConfirmPayment marks an appointment's payment confirmed, from any prior
// payment state.
func (h *Handler) ConfirmPayment(c *gin.Context) {
	aptID, okReq := h.bindAppointmentID(c)
	if !okReq {
		return
	}

	if err := h.Booking.ConfirmPayment(c.Request.Context(), aptID); err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, gin.H{"message": "Payment confirmed"})
}

// ApproveSchedule promotes a doctor's pending schedule request to the
// approved working schedule.
func (h *Handler) ApproveSchedule(c *gin.Context) {
	did, okParam := paramObjectID(c, "doctorId")
	if !okParam {
		return
	}

	if err := h.Booking.ApproveSchedule(c.Request.Context(), did); err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, gin.H{"message": "Schedule approved"})
}

// ScheduleRequests lists doctors with a pending schedule request.
func (h *Handler) ScheduleRequests(c *gin.Context) {
	filter := bson.M{
		"workingScheduleRequest": bson.M{"$exists": true, "$ne": bson.M{}},
	}
	cur, err := h.DB.Collection("doctors").Find(c.Request.Context(), filter)
	if err != nil {
		h.failErr(c, err)
		return
	}

	doctors := []models.Doctor{}
	if err := cur.All(c.Request.Context(), &doctors); err != nil {
		h.failErr(c, err)
		return
	}

	requests := make([]gin.H, 0, len(doctors))
	for _, d := range doctors {
		if len(d.WorkingScheduleRequest) == 0 {
			continue
		}
		requests = append(requests, gin.H{
			"doctorId":               d.ID,
			"name":                   d.Name,
			"speciality":             d.Speciality,
			"image":                  d.Image,
			"workingScheduleRequest": d.WorkingScheduleRequest,
		})
	}
	ok(c, gin.H{"requests": requests})
}

// Dashboard returns headline counts and the five most recent appointments.
func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	doctorCount, err := h.DB.Collection("doctors").CountDocuments(ctx, bson.M{})
	if err != nil {
		h.failErr(c, err)
		return
	}
	userCount, err := h.DB.Collection("users").CountDocuments(ctx, bson.M{})
	if err != nil {
		h.failErr(c, err)
		return
	}
	appointmentCount, err := h.DB.Collection("appointments").CountDocuments(ctx, bson.M{})
	if err != nil {
		h.failErr(c, err)
		return
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(5)
	cur, err := h.DB.Collection("appointments").Find(ctx, bson.M{}, opts)
	if err != nil {
		h.failErr(c, err)
		return
	}
	latest := []models.Appointment{}
	if err := cur.All(ctx, &latest); err != nil {
		h.failErr(c, err)
		return
	}

	ok(c, gin.H{"dashData": gin.H{
		"doctors":            doctorCount,
		"patients":           userCount,
		"appointments":       appointmentCount,
		"latestAppointments": latest,
	}})
}

// GetDoctor returns one doctor's full record for the admin panel.
func (h *Handler) GetDoctor(c *gin.Context) {
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
	ok(c, gin.H{"doctor": doc})
}

type updateDoctorRequest struct {
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Image      string         `json:"image"`
	Speciality string         `json:"speciality"`
	Degree     string         `json:"degree"`
	Experience string         `json:"experience"`
	About      string         `json:"about"`
	Fees       float64        `json:"fees"`
	Available  bool           `json:"available"`
	Address    models.Address `json:"address"`
}

// UpdateDoctor edits a doctor's profile fields from the admin panel.
// Scheduling state and the password are untouched.
func (h *Handler) UpdateDoctor(c *gin.Context) {
	did, okParam := paramObjectID(c, "id")
	if !okParam {
		return
	}

	var req updateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			fail(c, http.StatusBadRequest, "Please enter a valid email")
			return
		}
	}

	update := bson.M{
		"name":       req.Name,
		"image":      req.Image,
		"speciality": req.Speciality,
		"degree":     req.Degree,
		"experience": req.Experience,
		"about":      req.About,
		"fees":       req.Fees,
		"available":  req.Available,
		"address":    req.Address,
	}
	if req.Email != "" {
		update["email"] = req.Email
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
	ok(c, gin.H{"message": "Doctor updated"})
}

// DeleteDoctor removes a doctor account.
func (h *Handler) DeleteDoctor(c *gin.Context) {
	did, okParam := paramObjectID(c, "id")
	if !okParam {
		return
	}

	res, err := h.DB.Collection("doctors").DeleteOne(c.Request.Context(), bson.M{"_id": did})
	if err != nil {
		h.failErr(c, err)
		return
	}
	if res.DeletedCount == 0 {
		fail(c, http.StatusNotFound, "Doctor not found")
		return
	}
	ok(c, gin.H{"message": "Doctor deleted"})
}

// AllUsers lists every patient account.
func (h *Handler) AllUsers(c *gin.Context) {
	cur, err := h.DB.Collection("users").Find(c.Request.Context(), bson.M{})
	if err != nil {
		h.failErr(c, err)
		return
	}

	users := []models.User{}
	if err := cur.All(c.Request.Context(), &users); err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, gin.H{"users": users})
}

// GetUser returns one patient account.
func (h *Handler) GetUser(c *gin.Context) {
	uid, okParam := paramObjectID(c, "id")
	if !okParam {
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
	ok(c, gin.H{"user": user})
}

type adminUpdateUserRequest struct {
	Name    string         `json:"name"`
	Phone   string         `json:"phone"`
	Address models.Address `json:"address"`
	DOB     string         `json:"dob"`
	Gender  string         `json:"gender"`
	Image   string         `json:"image"`
}

// UpdateUser edits a patient's profile fields from the admin panel.
func (h *Handler) UpdateUser(c *gin.Context) {
	uid, okParam := paramObjectID(c, "id")
	if !okParam {
		return
	}

	var req adminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
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
	ok(c, gin.H{"message": "User updated"})
}

// DeleteUser removes a patient account.
func (h *Handler) DeleteUser(c *gin.Context) {
	uid, okParam := paramObjectID(c, "id")
	if !okParam {
		return
	}

	res, err := h.DB.Collection("users").DeleteOne(c.Request.Context(), bson.M{"_id": uid})
	if err != nil {
		h.failErr(c, err)
		return
	}
	if res.DeletedCount == 0 {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	ok(c, gin.H{"message": "User deleted"})
}

// AdminDiagnosis returns the diagnosis for any appointment.
func (h *Handler) AdminDiagnosis(c *gin.Context) {
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
	ok(c, gin.H{"diagnosis": diag})
}

// DiagnosedRecords lists appointments that carry a diagnosis, newest first.
func (h *Handler) DiagnosedRecords(c *gin.Context) {
	filter := bson.M{"diagnosisId": bson.M{"$exists": true, "$ne": nil}}
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
