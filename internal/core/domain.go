package core

// Principal is the opaque identifier of an authenticated user, sourced from
// the identity provider's subject claim. It lives for one validated session.
type Principal string

// Anonymous marks a request that carries no resolvable principal. Whether
// anonymous access is acceptable is decided by the strategy resolving the
// credential, not by the caller.
const Anonymous Principal = ""

func (p Principal) IsAnonymous() bool {
	return p == Anonymous
}

// BackendKind enumerates the downstream system categories. Each kind maps to
// exactly one credential strategy in the broker's dispatch table.
type BackendKind int

const (
	BackendUnknown BackendKind = iota
	BackendREST
	BackendSOAP
	BackendChecks
	BackendSearch
	BackendReporting
	BackendFileStorage
)

func (k BackendKind) String() string {
	switch k {
	case BackendREST:
		return "rest"
	case BackendSOAP:
		return "soap"
	case BackendChecks:
		return "checks"
	case BackendSearch:
		return "search"
	case BackendReporting:
		return "reporting"
	case BackendFileStorage:
		return "file-storage"
	default:
		return "unknown"
	}
}

// ParseBackendKind maps a kind name (as used in config and the CLI) back to
// its BackendKind. Unknown names return BackendUnknown.
func ParseBackendKind(s string) BackendKind {
	switch s {
	case "rest":
		return BackendREST
	case "soap":
		return BackendSOAP
	case "checks":
		return BackendChecks
	case "search":
		return BackendSearch
	case "reporting":
		return BackendReporting
	case "file-storage":
		return BackendFileStorage
	default:
		return BackendUnknown
	}
}

// Credential is the backend-specific value produced by a strategy. It is
// ephemeral and held only for the duration of one request.
type Credential interface {
	// Kind returns the backend kind this credential authenticates against.
	Kind() BackendKind
}

// BearerCredential is a bare token for the REST backend.
type BearerCredential struct {
	Token string `json:"token"`
}

func (BearerCredential) Kind() BackendKind { return BackendREST }

// SOAPSession is the session descriptor injected into SOAP-style calls.
// Both timestamps are normalized to an offset-aware representation with an
// explicit +HH:MM/-HH:MM offset; several consumers parse them with a strict
// pattern.
type SOAPSession struct {
	UserID         string `json:"IdUser"`
	SessionGUID    string `json:"SessionGuid"`
	Culture        string `json:"Culture"`
	IP             string `json:"IP"`
	DateOfCreation string `json:"DateOfCreation"`
	LastChange     string `json:"LastChange"`
}

func (SOAPSession) Kind() BackendKind { return BackendSOAP }

// ChecksCredential carries the access token plus the workstation identity the
// Checks backend binds sessions to. Fields are passed through verbatim.
type ChecksCredential struct {
	Token        string `json:"token"`
	UserID       string `json:"id_user"`
	Culture      string `json:"culture"`
	SessionGUID  string `json:"session_guid"`
	Username     string `json:"user_name"`
	PCName       string `json:"pc_name"`
	PCIdentifier string `json:"pc_identifier"`
	PCSerial     string `json:"pc_serial"`
}

func (ChecksCredential) Kind() BackendKind { return BackendChecks }

// ServiceCredential is a shared service-account username/password pair for
// backends that do not scope credentials per principal. Its lifecycle is the
// process lifetime.
type ServiceCredential struct {
	Backend  BackendKind `json:"-"`
	User     string      `json:"user"`
	Password string      `json:"password"`
}

func (c ServiceCredential) Kind() BackendKind { return c.Backend }
