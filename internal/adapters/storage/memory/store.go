// Package memory implementa los repositorios sobre mapas en proceso.
// Sirve para dev y tests; las cascadas que en Postgres hacen las FKs
// acá las hace el Store bajo su propio lock.
package memory

import (
	"sync"

	"livestock-registry/internal/domain/animals"
	"livestock-registry/internal/domain/births"
	"livestock-registry/internal/domain/campaigns"
	"livestock-registry/internal/domain/groups"
	"livestock-registry/internal/domain/history"
	"livestock-registry/internal/domain/states"
	"livestock-registry/internal/domain/users"
	"livestock-registry/internal/domain/vaccinations"
)

type Store struct {
	mu sync.RWMutex

	users        map[string]users.User
	groups       map[string]groups.Group
	memberships  map[string]groups.Membership // clave: groupID + "|" + userID
	animals      map[string]animals.Animal
	vaccinations map[string]vaccinations.Vaccination
	states       map[string]states.State
	entries      map[string]history.Entry
	births       map[string]births.Birth
	campaigns    map[string]campaigns.Campaign
}

func NewStore() *Store {
	return &Store{
		users:        make(map[string]users.User),
		groups:       make(map[string]groups.Group),
		memberships:  make(map[string]groups.Membership),
		animals:      make(map[string]animals.Animal),
		vaccinations: make(map[string]vaccinations.Vaccination),
		states:       make(map[string]states.State),
		entries:      make(map[string]history.Entry),
		births:       make(map[string]births.Birth),
		campaigns:    make(map[string]campaigns.Campaign),
	}
}

func membershipKey(groupID, userID string) string {
	return groupID + "|" + userID
}

// deleteAnimalLocked borra el animal y cascadea sus registros de eventos
// y su participación en campañas. Requiere s.mu tomado en escritura.
func (s *Store) deleteAnimalLocked(id string) {
	delete(s.animals, id)

	for k, v := range s.vaccinations {
		if v.AnimalID == id {
			delete(s.vaccinations, k)
		}
	}
	for k, st := range s.states {
		if st.AnimalID == id {
			delete(s.states, k)
		}
	}
	for k, e := range s.entries {
		if e.AnimalID == id {
			delete(s.entries, k)
		}
	}
	for k, b := range s.births {
		if b.MotherID == id {
			delete(s.births, k)
		}
	}
	for k, c := range s.campaigns {
		kept := c.AnimalIDs[:0]
		for _, aid := range c.AnimalIDs {
			if aid != id {
				kept = append(kept, aid)
			}
		}
		c.AnimalIDs = kept
		s.campaigns[k] = c
	}
}

// deleteGroupLocked borra el grupo, sus membresías y sus campañas.
// Requiere s.mu tomado en escritura.
func (s *Store) deleteGroupLocked(id string) {
	delete(s.groups, id)

	for k, m := range s.memberships {
		if m.GroupID == id {
			delete(s.memberships, k)
		}
	}
	for k, c := range s.campaigns {
		if c.GroupID == id {
			delete(s.campaigns, k)
		}
	}
}
