package roster

// Worksheet/database column headers for a credential record.
const (
	FirstName = "First Name"
	LastName  = "Last Name"
	Username  = "Username"
	Password  = "Password"
	Grade     = "Class/Grade"
	Section   = "Section"
	Branch    = "Branch"
	ID        = "Admission Number / Unique Identification Number"
	Remarks   = "Remarks"
)

// Columns lists the credential record headers in insert order.
var Columns = []string{
	FirstName,
	LastName,
	Username,
	Password,
	Grade,
	Section,
	Branch,
	ID,
	Remarks,
}

// KeyColumns lists the headers that identify a credential record.
var KeyColumns = []string{
	FirstName,
	LastName,
	Grade,
	Branch,
}

// Credential is a single learner roster entry.
type Credential struct {
	FirstName string
	LastName  string
	Username  string
	Password  string
	Grade     string
	Section   string
	Branch    string
	ID        string
	Remarks   string
}

// Key identifies a credential record for deduplication.
type Key struct {
	FirstName string
	LastName  string
	Grade     string
	Branch    string
}

func (c Credential) Key() Key {
	return Key{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Grade:     c.Grade,
		Branch:    c.Branch,
	}
}

// Values returns the record fields in Columns order.
func (c Credential) Values() []string {
	return []string{
		c.FirstName,
		c.LastName,
		c.Username,
		c.Password,
		c.Grade,
		c.Section,
		c.Branch,
		c.ID,
		c.Remarks,
	}
}

func (k Key) String() string {
	return k.FirstName + " " + k.LastName + " (" + k.Grade + ", " + k.Branch + ")"
}
