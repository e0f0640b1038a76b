package status

import (
	"fmt"
	"time"

	"github.com/runtipios/firstboot/internal/credstore"
	"github.com/runtipios/firstboot/internal/hostinfo"
	"github.com/runtipios/firstboot/internal/ledger"
)

type StepState string

const (
	StepCompleted  StepState = "completed"
	StepInProgress StepState = "in-progress"
	StepPending    StepState = "pending"
)

type StepView struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	State       StepState `json:"state"`
}

// View is everything the status page shows. It is computed on every request
// and never stored.
type View struct {
	Phase          ledger.Phase `json:"phase"`
	Step           int          `json:"step"`
	Progress       int          `json:"progress"`
	Steps          []StepView   `json:"steps"`
	Complete       bool         `json:"complete"`
	IPAddress      string       `json:"ip_address"`
	Username       string       `json:"username"`
	SSHCommand     string       `json:"ssh_command"`
	URL            string       `json:"url"`
	RefreshSeconds int          `json:"refresh_seconds"`
}

var installSteps = []struct {
	title       string
	description string
}{
	{"Network Configuration", "Connecting to WiFi network"},
	{"User Account Creation", "Creating SSH user with sudo privileges"},
	{"Docker Installation", "Installing Docker and Docker Compose"},
	{"Runtipi Installation", "Downloading and configuring Runtipi"},
	{"Starting Services", "Launching Runtipi and enabling services"},
}

// currentStep maps the ledger phase to the step shown to the user. The
// installer only writes "install" once, so an existing application directory
// is taken as a sign it already moved on to starting the services.
func currentStep(phase ledger.Phase, appInstalled bool) int {
	if phase == ledger.Installing && appInstalled {
		return ledger.Starting.Index()
	}
	return phase.Index()
}

func NewView(phase ledger.Phase, appInstalled bool, ipAddress, username string, refresh time.Duration) View {
	if ipAddress == "" {
		ipAddress = hostinfo.UnknownIP
	}
	if username == "" {
		username = credstore.DefaultUsername
	}

	step := currentStep(phase, appInstalled)
	view := View{
		Phase:      phase,
		Step:       step,
		Progress:   ledger.ProgressForStep(step),
		Steps:      make([]StepView, 0, len(installSteps)),
		Complete:   step >= ledger.Complete.Index(),
		IPAddress:  ipAddress,
		Username:   username,
		SSHCommand: fmt.Sprintf("ssh %s@%s", username, ipAddress),
		URL:        fmt.Sprintf("http://%s", ipAddress),
	}

	for i, s := range installSteps {
		state := StepPending
		switch {
		case step > i:
			state = StepCompleted
		case step == i:
			state = StepInProgress
		}
		view.Steps = append(view.Steps, StepView{Title: s.title, Description: s.description, State: state})
	}

	if !view.Complete {
		view.RefreshSeconds = int(refresh / time.Second)
	}

	return view
}
