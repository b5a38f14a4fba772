package models

// DoctorDashboard summarises a doctor's practice. Earnings count completed or paid appointments.
type DoctorDashboard struct {
	Earnings           float64       `json:"earnings"`
	Appointments       int64         `json:"appointments"`
	Patients           int64         `json:"patients"`
	LatestAppointments []Appointment `json:"latestAppointments"`
}

type AdminDashboard struct {
	Doctors            int64         `json:"doctors"`
	Appointments       int64         `json:"appointments"`
	Patients           int64         `json:"patients"`
	LatestAppointments []Appointment `json:"latestAppointments"`
}
