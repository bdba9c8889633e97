// Package filestore is the legacy single-file JSON store. An advisory file
// lock serializes every writer's read-modify-write cycle, which stands in for
// transactions in this deployment mode.
package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"workshop_hub/internal/common"
	"workshop_hub/internal/domain/model"

	"github.com/gofrs/flock"
)

type fileData struct {
	Workshops     []model.LegacyWorkshop  `json:"workshops"`
	Challenges    []model.LegacyChallenge `json:"challenges"`
	Registrations []model.Registration    `json:"registrations"`
}

type Store struct {
	path string
	lock *flock.Flock
}

func New(path string) (*Store, error) {
	s := &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.withLock(func() error { return s.save(emptyData()) }); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func emptyData() *fileData {
	return &fileData{
		Workshops:     []model.LegacyWorkshop{},
		Challenges:    []model.LegacyChallenge{},
		Registrations: []model.Registration{},
	}
}

func (s *Store) withLock(fn func() error) error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("filestore: acquiring lock: %w", err)
	}
	defer s.lock.Unlock()
	return fn()
}

// load tolerates a missing, empty, or corrupt file by reinitializing it, as
// the legacy deployment always has.
func (s *Store) load() (*fileData, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("filestore: reading %s: %w", s.path, err)
	}
	data := emptyData()
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, data); err != nil {
		return emptyData(), nil
	}
	return data, nil
}

func (s *Store) save(data *fileData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("filestore: encoding: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("filestore: writing %s: %w", s.path, err)
	}
	return nil
}

// mutate runs fn against the decoded file under the exclusive lock and
// persists the result.
func (s *Store) mutate(fn func(*fileData) error) error {
	return s.withLock(func() error {
		data, err := s.load()
		if err != nil {
			return err
		}
		if err := fn(data); err != nil {
			return err
		}
		return s.save(data)
	})
}

func (s *Store) AddWorkshop(w model.LegacyWorkshop) error {
	return s.mutate(func(d *fileData) error {
		d.Workshops = append(d.Workshops, w)
		return nil
	})
}

func (s *Store) GetWorkshop(id string) (*model.LegacyWorkshop, error) {
	data, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range data.Workshops {
		if data.Workshops[i].ID == id {
			w := data.Workshops[i]
			return &w, nil
		}
	}
	return nil, common.ErrNotFound
}

func (s *Store) AllWorkshops() ([]model.LegacyWorkshop, error) {
	data, err := s.load()
	if err != nil {
		return nil, err
	}
	return data.Workshops, nil
}

// UpdateWorkshop replaces the stored workshop with the same ID.
func (s *Store) UpdateWorkshop(w model.LegacyWorkshop) error {
	return s.mutate(func(d *fileData) error {
		for i := range d.Workshops {
			if d.Workshops[i].ID == w.ID {
				d.Workshops[i] = w
				return nil
			}
		}
		return common.ErrNotFound
	})
}

func (s *Store) AddChallenge(c model.LegacyChallenge) error {
	return s.mutate(func(d *fileData) error {
		d.Challenges = append(d.Challenges, c)
		return nil
	})
}

func (s *Store) ChallengesForWorkshop(workshopID string) ([]model.LegacyChallenge, error) {
	data, err := s.load()
	if err != nil {
		return nil, err
	}
	challenges := []model.LegacyChallenge{}
	for _, c := range data.Challenges {
		if c.WorkshopID == workshopID {
			challenges = append(challenges, c)
		}
	}
	return challenges, nil
}

func (s *Store) AddRegistration(r model.Registration) error {
	return s.mutate(func(d *fileData) error {
		d.Registrations = append(d.Registrations, r)
		return nil
	})
}

func (s *Store) AllRegistrations() ([]model.Registration, error) {
	data, err := s.load()
	if err != nil {
		return nil, err
	}
	return data.Registrations, nil
}

func (s *Store) RegistrationsForWorkshop(workshopID string) ([]model.Registration, error) {
	data, err := s.load()
	if err != nil {
		return nil, err
	}
	registrations := []model.Registration{}
	for _, r := range data.Registrations {
		if r.WorkshopID == workshopID {
			registrations = append(registrations, r)
		}
	}
	return registrations, nil
}
