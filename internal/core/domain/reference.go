package domain

// Statically declared reference data used for boundary validation.
// Each entity field with a closed value set is checked against one of
// these sets before it reaches the store.

// NigerianStates are the 36 states plus the FCT
var NigerianStates = []string{
	"Abia", "Adamawa", "Akwa Ibom", "Anambra", "Bauchi", "Bayelsa", "Benue",
	"Borno", "Cross River", "Delta", "Ebonyi", "Edo", "Ekiti", "Enugu",
	"FCT", "Gombe", "Imo", "Jigawa", "Kaduna", "Kano", "Katsina", "Kebbi",
	"Kogi", "Kwara", "Lagos", "Nasarawa", "Niger", "Ogun", "Ondo", "Osun",
	"Oyo", "Plateau", "Rivers", "Sokoto", "Taraba", "Yobe", "Zamfara",
}

// Genders accepted on child and staff records
var Genders = []string{"Male", "Female"}

// MaritalStatuses accepted on staff records
var MaritalStatuses = []string{"Single", "Married", "Divorced", "Widowed"}

// Languages a child may list as preferred
var Languages = []string{"English", "Hausa", "Yoruba", "Igbo", "Fulfulde", "Other"}

// Religions accepted on child records
var Religions = []string{"Christianity", "Islam", "Traditional", "Other"}

// BloodTypes accepted on child records
var BloodTypes = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-", "Unknown"}

// Genotypes accepted on child records
var Genotypes = []string{"AA", "AS", "SS", "AC", "SC", "CC", "Unknown"}

// ChildStatuses are the lifecycle states of a child record. A record is
// never physically removed; deletion transitions it to Exited.
var ChildStatuses = []string{"Active", "Exited", "Transferred", "Adopted", "Family Reunification"}

const (
	ChildStatusActive = "Active"
	ChildStatusExited = "Exited"
)

// EducationLevels accepted on child records
var EducationLevels = []string{
	"Pre-School", "Primary 1", "Primary 2", "Primary 3", "Primary 4",
	"Primary 5", "Primary 6", "JSS 1", "JSS 2", "JSS 3", "SSS 1",
	"SSS 2", "SSS 3", "Tertiary", "Vocational Training", "Out of School",
}

// Positions accepted on staff records
var Positions = []string{
	"Director", "Assistant Director", "Administrator", "System Administrator",
	"Social Worker", "Child Care Worker", "Teacher", "Nurse", "Medical Officer",
	"Cook", "Security Officer", "Cleaner", "Maintenance", "Volunteer", "Intern",
	"Manager", "Supervisor", "Counselor", "Driver",
}

// Departments accepted on staff records
var Departments = []string{
	"Administration", "Child Care", "Education", "Medical",
	"Kitchen", "Security", "Maintenance", "Social Services",
}

// EmploymentStatuses accepted on staff records
var EmploymentStatuses = []string{"Active", "On Leave", "Suspended", "Terminated", "Resigned"}

// EmploymentTypes accepted on staff records
var EmploymentTypes = []string{"Full-time", "Part-time", "Contract", "Volunteer"}

// StaffDocumentTypes accepted on staff document uploads
var StaffDocumentTypes = []string{"CV", "Certificate", "Contract", "ID", "Other"}

// ValidValue reports whether v is in the given reference set.
// Empty values are considered valid; required-ness is checked separately.
func ValidValue(set []string, v string) bool {
	if v == "" {
		return true
	}
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
