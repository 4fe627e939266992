package application

// Payload is the applicant-supplied part of an application. The workflow only
// validates it at creation and otherwise carries it through untouched.
type Payload struct {
	Loan       LoanTerms           `json:"loan"`
	Applicant  ApplicantProfile    `json:"applicant"`
	Employment Employment          `json:"employment"`
	References []Reference         `json:"references,omitempty" validate:"omitempty,dive"`
	Documents  map[string][]string `json:"documents,omitempty"`
}

type LoanTerms struct {
	Amount         float64 `json:"amount" validate:"gt=0"`
	DurationMonths int     `json:"duration_months" validate:"gt=0,lte=480"`
	Purpose        string  `json:"purpose"`
	Type           string  `json:"type"`
}

type ApplicantProfile struct {
	FirstName        string `json:"first_name" validate:"required"`
	MiddleName       string `json:"middle_name,omitempty"`
	LastName         string `json:"last_name" validate:"required"`
	Email            string `json:"email" validate:"omitempty,email"`
	Phone            string `json:"phone,omitempty"`
	DateOfBirth      string `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Gender           string `json:"gender,omitempty"`
	MaritalStatus    string `json:"marital_status,omitempty"`
	PAN              string `json:"pan,omitempty"`
	Aadhaar          string `json:"aadhaar,omitempty"`
	CurrentAddress   string `json:"current_address,omitempty"`
	PermanentAddress string `json:"permanent_address,omitempty"`
}

type Employment struct {
	OccupationType string  `json:"occupation_type,omitempty"`
	CompanyName    string  `json:"company_name,omitempty"`
	Designation    string  `json:"designation,omitempty"`
	OfficeAddress  string  `json:"office_address,omitempty"`
	MonthlyIncome  float64 `json:"monthly_income" validate:"gte=0"`
	ExistingLoans  string  `json:"existing_loans,omitempty"`
}

type Reference struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Relation string `json:"relation,omitempty"`
}

// FullName is used in reviewer-facing notification text.
func (p Payload) FullName() string {
	name := p.Applicant.FirstName
	if p.Applicant.LastName != "" {
		if name != "" {
			name += " "
		}
		name += p.Applicant.LastName
	}
	return name
}

func (p Payload) Clone() Payload {
	out := p
	out.References = append([]Reference(nil), p.References...)
	if p.Documents != nil {
		out.Documents = make(map[string][]string, len(p.Documents))
		for k, v := range p.Documents {
			out.Documents[k] = append([]string(nil), v...)
		}
	}
	return out
}
