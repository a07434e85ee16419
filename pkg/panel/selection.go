package panel

import (
	"github.com/fivetwenty-io/dopanel/pkg/doapi"
)

// Select makes id the droplet shown in the detail view. It is a weak
// reference: Selected resolves it through the cache each time.
func (s *Session) Select(id string) {
	s.mutex.Lock()
	s.selectedID = id
	s.mutex.Unlock()
}

// SelectedID returns the selected id, or "".
func (s *Session) SelectedID() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.selectedID
}

// Selected resolves the selection. It reports false when nothing is selected
// or the droplet is no longer in the cache.
func (s *Session) Selected() (doapi.Droplet, bool) {
	id := s.SelectedID()
	if id == "" {
		return doapi.Droplet{}, false
	}

	return s.droplets.LookupDroplet(id)
}

// ClearSelection drops the selection.
func (s *Session) ClearSelection() {
	s.Select("")
}

func (s *Session) clearSelectionIf(id string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.selectedID == id {
		s.selectedID = ""
	}
}
