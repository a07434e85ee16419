package panel

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/dopanel/pkg/doapi"
)

// Action keywords understood by the dispatcher.
const (
	ActionPowerOn       = "power_on"
	ActionPowerOff      = "power_off"
	ActionShutdown      = "shutdown"
	ActionReboot        = "reboot"
	ActionPowerCycle    = "power_cycle"
	ActionPasswordReset = "password_reset"
	ActionSnapshot      = "snapshot"
	ActionRename        = "rename"
	ActionResize        = "resize"
	ActionDestroy       = "destroy"
)

// ActionKeywords lists every keyword in display order.
var ActionKeywords = []string{
	ActionPowerOn, ActionPowerOff, ActionShutdown, ActionReboot, ActionPowerCycle,
	ActionPasswordReset, ActionSnapshot, ActionRename, ActionResize, ActionDestroy,
}

// ActionState is the UI state of a dispatched action.
type ActionState string

const (
	ActionInFlight  ActionState = "in-flight"
	ActionSucceeded ActionState = "success"
	ActionFailed    ActionState = "failure"
)

// ActionStatus is one state report of a dispatch.
type ActionStatus struct {
	Action    string
	DropletID string
	State     ActionState
	Message   string
	Err       error
}

// ActionParams carries the per-action inputs.
type ActionParams struct {
	// Name is the snapshot name or the new droplet name.
	Name string
	// Size is the target size slug for resize.
	Size string
}

// ActionResult describes a successful dispatch.
type ActionResult struct {
	Action  *doapi.Action
	Message string
	// RefreshErr is set when the follow-up droplet refresh failed. The action
	// itself still succeeded.
	RefreshErr error
}

// Confirmer asks the user to approve an irreversible step.
type Confirmer func(ctx context.Context, prompt string) (bool, error)

// Dispatcher maps action keywords to provider calls.
type Dispatcher struct {
	session *Session
	confirm Confirmer
	report  func(ActionStatus)
}

// NewDispatcher creates a dispatcher. report receives every state change and
// may be nil; confirm gates destroy and declines when nil.
func (s *Session) NewDispatcher(confirm Confirmer, report func(ActionStatus)) *Dispatcher {
	if report == nil {
		report = func(ActionStatus) {}
	}

	return &Dispatcher{session: s, confirm: confirm, report: report}
}

// Dispatch validates and issues keyword against dropletID. Power actions do
// not refresh the cache; rename and destroy do.
func (d *Dispatcher) Dispatch(ctx context.Context, dropletID, keyword string, params ActionParams) (*ActionResult, error) {
	dropletID = strings.TrimSpace(dropletID)
	if dropletID == "" {
		return nil, d.reject(dropletID, keyword, doapi.NewValidationError("droplet", "no droplet selected"))
	}

	switch keyword {
	case ActionPowerOn, ActionPowerOff, ActionShutdown, ActionReboot, ActionPowerCycle, ActionPasswordReset:
		return d.post(ctx, dropletID, &doapi.ActionRequest{Type: keyword}, fmt.Sprintf("action %s sent", keyword), false)

	case ActionSnapshot:
		name := strings.TrimSpace(params.Name)
		if name == "" {
			name = fmt.Sprintf("snapshot-%s-%d", dropletID, d.session.now().UnixMilli())
		}

		return d.post(ctx, dropletID, &doapi.ActionRequest{Type: keyword, Name: name}, "snapshot requested: "+name, false)

	case ActionRename:
		name := strings.TrimSpace(params.Name)
		if name == "" {
			return nil, d.reject(dropletID, keyword, doapi.NewValidationError("name", "new name is empty"))
		}

		return d.post(ctx, dropletID, &doapi.ActionRequest{Type: keyword, Name: name}, "rename sent", true)

	case ActionResize:
		size := strings.TrimSpace(params.Size)
		if size == "" {
			return nil, d.reject(dropletID, keyword, doapi.NewValidationError("size", "no size selected"))
		}

		disk := true

		return d.post(ctx, dropletID, &doapi.ActionRequest{Type: keyword, Size: size, Disk: &disk},
			"resize sent, it can take a few minutes", false)

	case ActionDestroy:
		return d.destroy(ctx, dropletID)

	default:
		err := doapi.NewValidationError("action", fmt.Sprintf("%s: %s", doapi.ErrUnknownAction, keyword))

		return nil, d.reject(dropletID, keyword, err)
	}
}

func (d *Dispatcher) post(ctx context.Context, dropletID string, request *doapi.ActionRequest, message string, refresh bool) (*ActionResult, error) {
	d.emit(dropletID, request.Type, ActionInFlight, "sending "+request.Type, nil)

	action, err := d.session.client.DropletActions().Do(ctx, dropletID, request)
	if err != nil {
		d.emit(dropletID, request.Type, ActionFailed, doapi.Message(err), err)

		return nil, err
	}

	d.emit(dropletID, request.Type, ActionSucceeded, message, nil)

	result := &ActionResult{Action: action, Message: message}

	if refresh {
		result.RefreshErr = d.refresh(ctx, request.Type)
	}

	return result, nil
}

func (d *Dispatcher) destroy(ctx context.Context, dropletID string) (*ActionResult, error) {
	if d.confirm == nil {
		return nil, doapi.ErrNotConfirmed
	}

	confirmed, err := d.confirm(ctx, fmt.Sprintf("Destroy droplet %s? All data will be lost.", dropletID))
	if err != nil {
		return nil, fmt.Errorf("confirming destroy: %w", err)
	}

	if !confirmed {
		return nil, doapi.ErrNotConfirmed
	}

	d.emit(dropletID, ActionDestroy, ActionInFlight, "deleting droplet", nil)

	err = d.session.client.Droplets().Delete(ctx, dropletID)
	if err != nil {
		d.emit(dropletID, ActionDestroy, ActionFailed, doapi.Message(err), err)

		return nil, err
	}

	const message = "droplet destroyed"

	d.emit(dropletID, ActionDestroy, ActionSucceeded, message, nil)

	result := &ActionResult{Message: message}
	result.RefreshErr = d.refresh(ctx, ActionDestroy)
	d.session.clearSelectionIf(dropletID)

	return result, nil
}

// refresh reloads droplets after a list-visible change. Its failure is logged
// and returned but does not fail the action.
func (d *Dispatcher) refresh(ctx context.Context, action string) error {
	_, err := d.session.droplets.RefreshDroplets(ctx)
	if err != nil {
		d.session.logger.Warn("droplet refresh after action failed", map[string]interface{}{
			"action": action,
			"error":  doapi.Message(err),
		})
	}

	return err
}

func (d *Dispatcher) reject(dropletID, keyword string, err error) error {
	d.emit(dropletID, keyword, ActionFailed, doapi.Message(err), err)

	return err
}

func (d *Dispatcher) emit(dropletID, action string, state ActionState, message string, err error) {
	d.report(ActionStatus{
		Action:    action,
		DropletID: dropletID,
		State:     state,
		Message:   message,
		Err:       err,
	})
}
