package memory

import (
	"context"
	"strings"
	"sync"

	"pollstation/contexts/polling-station/voter-access/domain/entities"
	domainerrors "pollstation/contexts/polling-station/voter-access/domain/errors"
)

type account struct {
	password string
	profile  entities.VoterProfile
}

// Directory is an in-memory VoterDirectory used by unit tests and bench
// setups.
type Directory struct {
	mu sync.RWMutex

	accounts    map[string]account
	enrollments map[string][]entities.ElectionSummary

	authErr   error
	enrollErr error
}

func NewDirectory() *Directory {
	return &Directory{
		accounts:    make(map[string]account),
		enrollments: make(map[string][]entities.ElectionSummary),
	}
}

func (d *Directory) SetVoter(password string, profile entities.VoterProfile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.accounts[strings.TrimSpace(profile.NationalID)] = account{
		password: password,
		profile:  profile,
	}
}

func (d *Directory) SetEnrollments(nationalID string, elections []entities.ElectionSummary) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enrollments[strings.TrimSpace(nationalID)] = elections
}

func (d *Directory) FailAuthWith(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.authErr = err
}

func (d *Directory) FailEnrollmentsWith(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enrollErr = err
}

func (d *Directory) Authenticate(_ context.Context, nationalID string, password string) (entities.VoterProfile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.authErr != nil {
		return entities.VoterProfile{}, d.authErr
	}
	acct, ok := d.accounts[strings.TrimSpace(nationalID)]
	if !ok || acct.password != password {
		return entities.VoterProfile{}, domainerrors.ErrVoterNotFound
	}
	return acct.profile, nil
}

func (d *Directory) EnrolledElections(_ context.Context, nationalID string) ([]entities.ElectionSummary, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.enrollErr != nil {
		return nil, d.enrollErr
	}
	elections := d.enrollments[strings.TrimSpace(nationalID)]
	out := make([]entities.ElectionSummary, len(elections))
	copy(out, elections)
	return out, nil
}
