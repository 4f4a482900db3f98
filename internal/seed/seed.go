// Package seed arma la cuenta demo con un tambo de ejemplo para poder
// recorrer la API sin cargar datos a mano.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"livestock-registry/internal/domain/animals"
	"livestock-registry/internal/domain/campaigns"
	"livestock-registry/internal/domain/faults"
	"livestock-registry/internal/domain/groups"
	"livestock-registry/internal/domain/users"
	"livestock-registry/internal/platform/logger"
)

const (
	DemoEmail    = "demo@livestock.local"
	demoPassword = "demo1234"
)

type Seeder struct {
	users     *users.Service
	groups    *groups.Service
	animals   *animals.Service
	campaigns *campaigns.Service
	log       logger.Logger
}

func New(us *users.Service, gs *groups.Service, as *animals.Service, cs *campaigns.Service, log logger.Logger) *Seeder {
	return &Seeder{
		users:     us,
		groups:    gs,
		animals:   as,
		campaigns: cs,
		log:       log,
	}
}

// EnsureDemo devuelve la cuenta demo, creándola con sus datos de
// ejemplo la primera vez. Idempotente: si la cuenta ya existe no
// vuelve a sembrar nada.
func (s *Seeder) EnsureDemo(ctx context.Context) (users.User, error) {
	if u, err := s.users.FindByEmail(ctx, DemoEmail); err == nil {
		return u, nil
	} else if !errors.Is(err, faults.ErrNotFound) {
		return users.User{}, err
	}

	demo, err := s.users.Register(ctx, users.RegisterInput{
		Name:     "Cuenta Demo",
		Email:    DemoEmail,
		Password: demoPassword,
	})
	if err != nil {
		return users.User{}, err
	}

	if err := s.seedData(ctx, demo); err != nil {
		return users.User{}, err
	}

	s.log.Info("demo account seeded", map[string]any{"user_id": demo.ID})
	return demo, nil
}

func (s *Seeder) seedData(ctx context.Context, demo users.User) error {
	helpers := []users.RegisterInput{
		{Name: "Ana Peón", Email: "ana@livestock.local", Password: demoPassword},
		{Name: "Bruno Tambero", Email: "bruno@livestock.local", Password: demoPassword},
	}
	for _, in := range helpers {
		if _, err := s.users.Register(ctx, in); err != nil && !errors.Is(err, faults.ErrConflict) {
			return err
		}
	}

	tambo, err := s.groups.Create(ctx, "Tambo La Esperanza", demo.ID)
	if err != nil {
		return err
	}
	campo, err := s.groups.Create(ctx, "Campo Norte", demo.ID)
	if err != nil {
		return err
	}

	if _, err := s.groups.InviteMember(ctx, tambo.ID, "ana@livestock.local", groups.RoleAdmin, demo.ID); err != nil {
		return err
	}
	if _, err := s.groups.InviteMember(ctx, tambo.ID, "bruno@livestock.local", groups.RoleMember, demo.ID); err != nil {
		return err
	}
	if _, err := s.groups.InviteMember(ctx, campo.ID, "bruno@livestock.local", groups.RoleMember, demo.ID); err != nil {
		return err
	}

	coats := []string{"Holando", "Jersey", "Overo colorado", "Negro", "Bayo"}
	kinds := []struct {
		kind animals.Kind
		sex  animals.Sex
	}{
		{animals.KindCow, animals.SexFemale},
		{animals.KindHeifer, animals.SexFemale},
		{animals.KindCalfFemale, animals.SexFemale},
		{animals.KindCalfMale, animals.SexMale},
		{animals.KindSteer, animals.SexMale},
		{animals.KindBull, animals.SexMale},
	}

	var mothers []string
	for i := 0; i < 50; i++ {
		k := kinds[i%len(kinds)]
		bd := time.Date(2019+i%6, time.Month(1+i%12), 1+i%28, 0, 0, 0, 0, time.UTC)

		in := animals.CreateInput{
			EarTag:    fmt.Sprintf("AR-%04d", 1000+i),
			Kind:      k.kind,
			Coat:      coats[i%len(coats)],
			Sex:       k.sex,
			Breed:     "Holando Argentino",
			BirthDate: &bd,
		}
		// Las crías más nuevas quedan colgadas de las primeras vacas.
		if (k.kind == animals.KindCalfFemale || k.kind == animals.KindCalfMale) && len(mothers) > 0 {
			in.MotherID = mothers[i%len(mothers)]
		}

		a, err := s.animals.Create(ctx, demo.ID, in)
		if err != nil {
			return err
		}
		if a.Kind == animals.KindCow {
			mothers = append(mothers, a.ID)
		}
	}

	page, _, err := s.animals.ListForUser(ctx, demo.ID, animals.Page{Page: 1, Limit: 10})
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(page))
	for _, a := range page {
		ids = append(ids, a.ID)
	}

	camps := []campaigns.CreateInput{
		{Name: "Vacunación aftosa otoño", Date: time.Now().AddDate(0, 1, 0), Products: "Aftogan", Status: campaigns.StatusPending, AnimalIDs: ids},
		{Name: "Desparasitación general", Date: time.Now().AddDate(0, 0, 14), Products: "Ivermectina", Status: campaigns.StatusPending, AnimalIDs: ids[:5]},
		{Name: "Control lechero", Date: time.Now().AddDate(0, 0, -30), Status: campaigns.StatusDone, AnimalIDs: ids[:3]},
		{Name: "Brucelosis terneras", Date: time.Now().AddDate(0, 2, 0), GroupID: tambo.ID, Status: campaigns.StatusPending, AnimalIDs: ids[5:]},
		{Name: "Revisión preparto", Date: time.Now().AddDate(0, 0, 7), GroupID: campo.ID, Status: campaigns.StatusInProgress, AnimalIDs: ids[:2]},
	}
	for _, in := range camps {
		if _, err := s.campaigns.Create(ctx, demo.ID, in); err != nil {
			return err
		}
	}

	return nil
}
