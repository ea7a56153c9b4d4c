package domain

// Doctor врач, чье время бронируется приемами
type Doctor struct {
	ID             int64
	FullName       string
	Specialization string
	Active         bool
}

// Patient пациент, на которого оформляется прием
type Patient struct {
	ID       int64
	FullName string
	Active   bool
}
