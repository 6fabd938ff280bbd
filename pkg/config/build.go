package config

import (
	"github.com/dd0wney/tbd/pkg/logging"
	"github.com/dd0wney/tbd/pkg/psi"
)

// Library returns the built-in sets plus the configured ones. Invalid or
// duplicate sets are logged and left out.
func (c *Config) Library(log logging.Logger) *psi.Library {
	lib := psi.DefaultLibrary()
	for _, s := range c.PSIs {
		if err := lib.AddPSI(s); err != nil {
			log.Error("psi set rejected", logging.SetID(s.ID), logging.Error(err))
			continue
		}
		if out := s.OutOfRange(psi.MaxMagnitude); len(out) > 0 {
			log.Warn("psi values unusually large", logging.SetID(s.ID), logging.Any("types", out))
		}
	}
	for _, k := range c.KHIs {
		if err := lib.AddKHI(k); err != nil {
			log.Error("khi entry rejected", logging.SetID(k.ID), logging.Error(err))
		}
	}
	return lib
}

// Hierarchy binds the configured scopes to sets of lib. Bindings naming an
// unknown set are logged and ignored.
func (c *Config) Hierarchy(lib *psi.Library, log logging.Logger) *psi.Hierarchy {
	h := psi.NewHierarchy(lib, c.Building, log)
	bind := func(scope string, m map[string]string, set func(id, psi string) error) {
		for _, id := range sortedKeys(m) {
			if err := set(id, m[id]); err != nil {
				log.Error("override ignored", logging.String("scope", scope), logging.String("id", id), logging.Error(err))
			}
		}
	}
	bind("story", c.Stories, h.SetStory)
	bind("spacetype", c.SpaceTypes, h.SetSpaceType)
	bind("space", c.Spaces, h.SetSpace)

	surfaces := make(map[string]string)
	for id, o := range c.Surfaces {
		if o.PSI != "" {
			surfaces[id] = o.PSI
		}
	}
	bind("surface", surfaces, h.SetSurface)
	return h
}
