package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/clinibook/clinic-api/internal/middleware"
)

// RegisterRoutes wires every endpoint group onto the router.
func RegisterRoutes(r *gin.Engine, h *Handler) {
	user := r.Group("/api/user")
	{
		user.POST("/register", h.RegisterUser)
		user.POST("/login", h.LoginUser)

		auth := user.Group("", middleware.AuthUser())
		auth.GET("/get-profile", h.GetProfile)
		auth.POST("/update-profile", h.UpdateProfile)
		auth.POST("/book-appointment", h.BookAppointment)
		auth.GET("/appointments", h.ListAppointments)
		auth.GET("/appointment-history", h.AppointmentHistory)
		auth.POST("/cancel-appointment", h.CancelAppointment)
		auth.POST("/delete-appointment", h.DeleteAppointment)
		auth.POST("/request-payment", h.RequestPayment)
		auth.GET("/diagnosis/:appointmentId", h.UserDiagnosis)
	}

	doctor := r.Group("/api/doctor")
	{
		doctor.POST("/login", h.LoginDoctor)
		doctor.GET("/list", h.DoctorList)
		doctor.GET("/slots/:id", h.DoctorSlots)

		auth := doctor.Group("", middleware.AuthDoctor())
		auth.GET("/appointments", h.DoctorAppointments)
		auth.GET("/profile", h.DoctorProfile)
		auth.POST("/update-profile", h.UpdateDoctorProfile)
		auth.POST("/cancel-appointment", h.DoctorCancelAppointment)
		auth.POST("/schedule-request", h.RequestWorkingSchedule)
		auth.GET("/medical-records", h.MedicalRecords)
		auth.GET("/templates", h.DoctorTemplates)
		auth.POST("/templates", h.SaveDoctorTemplate)

		auth.POST("/diagnosis", h.CreateDiagnosis)
		auth.GET("/diagnosis/:appointmentId", h.GetDiagnosis)
		auth.PUT("/diagnosis/:appointmentId", h.UpdateDiagnosis)
		auth.DELETE("/diagnosis/:appointmentId", h.DeleteDiagnosis)
		auth.GET("/check-diagnosis/:appointmentId", h.CheckDiagnosis)
		auth.PUT("/diagnosis-payment/:appointmentId", h.UpdateDiagnosisPayment)
	}

	admin := r.Group("/api/admin")
	{
		admin.POST("/login", h.LoginAdmin)

		auth := admin.Group("", middleware.AuthAdmin())
		auth.POST("/add-doctor", h.AddDoctor)
		auth.GET("/all-doctors", h.AllDoctors)
		auth.POST("/change-availability", h.ChangeAvailability)
		auth.GET("/appointments", h.AdminAppointments)
		auth.POST("/cancel-appointment", h.AdminCancelAppointment)
		auth.POST("/confirm-payment", h.ConfirmPayment)
		auth.POST("/approve-schedule/:doctorId", h.ApproveSchedule)
		auth.GET("/schedule-requests", h.ScheduleRequests)
		auth.GET("/dashboard", h.Dashboard)
		auth.GET("/diagnosed-records", h.DiagnosedRecords)
		auth.GET("/diagnosis/:appointmentId", h.AdminDiagnosis)

		auth.GET("/doctor/:id", h.GetDoctor)
		auth.PUT("/doctor/:id", h.UpdateDoctor)
		auth.DELETE("/doctor/:id", h.DeleteDoctor)
		auth.GET("/users", h.AllUsers)
		auth.GET("/user/:id", h.GetUser)
		auth.PUT("/user/:id", h.UpdateUser)
		auth.DELETE("/user/:id", h.DeleteUser)
	}
}
