package memory

import (
	"context"
	"sort"

	"livestock-registry/internal/domain/campaigns"
	"livestock-registry/internal/domain/faults"
)

type campaignRepo struct {
	s *Store
}

func (s *Store) Campaigns() campaigns.Repository {
	return &campaignRepo{s: s}
}

func (r *campaignRepo) Create(ctx context.Context, c campaigns.Campaign) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.campaigns[c.ID]; exists {
		return faults.Conflict("campaign %s already exists", c.ID)
	}
	r.s.campaigns[c.ID] = c
	return nil
}

func (r *campaignRepo) GetByID(ctx context.Context, id string) (campaigns.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.campaigns[id]
	if !ok {
		return campaigns.Campaign{}, faults.NotFound("campaign %s", id)
	}
	return c, nil
}

func (r *campaignRepo) Update(ctx context.Context, c campaigns.Campaign) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.campaigns[c.ID]; !ok {
		return faults.NotFound("campaign %s", c.ID)
	}
	r.s.campaigns[c.ID] = c
	return nil
}

func (r *campaignRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.campaigns[id]; !ok {
		return faults.NotFound("campaign %s", id)
	}
	delete(r.s.campaigns, id)
	return nil
}

func (r *campaignRepo) ListByOwner(ctx context.Context, ownerID string) ([]campaigns.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]campaigns.Campaign, 0)
	for _, c := range r.s.campaigns {
		if c.OwnerID == ownerID && ownerID != "" {
			out = append(out, c)
		}
	}
	sortByDate(out)
	return out, nil
}

func (r *campaignRepo) ListByGroups(ctx context.Context, groupIDs []string) ([]campaigns.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[string]bool, len(groupIDs))
	for _, id := range groupIDs {
		if id != "" {
			wanted[id] = true
		}
	}

	out := make([]campaigns.Campaign, 0)
	for _, c := range r.s.campaigns {
		if wanted[c.GroupID] {
			out = append(out, c)
		}
	}
	sortByDate(out)
	return out, nil
}

func sortByDate(cs []campaigns.Campaign) {
	sort.Slice(cs, func(i, j int) bool {
		return cs[i].Date.Before(cs[j].Date)
	})
}
