package panel

import (
	"github.com/yakschuss/dialkit-rails/internal/log"
	"github.com/yakschuss/dialkit-rails/internal/registry"
)

// mounts is the registry's view of the panel. It is shared by every copy
// of Model so registry callbacks land in the live state.
type mounts struct {
	empty       bool
	refreshes   int
	highlighted *registry.Section
}

var _ registry.Mounter = (*mounts)(nil)

func (mt *mounts) Mount(s *registry.Section) {
	log.Debug(log.CatUI, "section mounted", "section", s.Name, "controls", len(s.Instances))
}

func (mt *mounts) Unmount(s *registry.Section) {
	if mt.highlighted == s {
		mt.highlighted = nil
	}
	log.Debug(log.CatUI, "section unmounted", "section", s.Name)
}

// Refresh records the empty state once per changed batch.
func (mt *mounts) Refresh(empty bool) {
	mt.empty = empty
	mt.refreshes++
}

// highlight moves the target highlight to s. nil clears it.
func (mt *mounts) highlight(s *registry.Section) {
	if mt.highlighted == s {
		return
	}
	if mt.highlighted != nil {
		mt.highlighted.Highlight(false)
	}
	if s != nil {
		s.Highlight(true)
	}
	mt.highlighted = s
}
