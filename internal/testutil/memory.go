// Package testutil provides an in-memory implementation of every repository
// so services and handlers can be tested without Postgres.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type row[T any] struct {
	seq int
	v   T
}

type tables struct {
	accounts      map[uuid.UUID]row[model.Account]
	doctors       map[uuid.UUID]row[model.DoctorProfile]
	patients      map[uuid.UUID]row[model.PatientProfile]
	reports       map[uuid.UUID]row[model.MedicalReport]
	prescriptions map[uuid.UUID]row[model.Prescription]
	counters      map[string]int64
}

func (t tables) clone() tables {
	c := tables{
		accounts:      make(map[uuid.UUID]row[model.Account], len(t.accounts)),
		doctors:       make(map[uuid.UUID]row[model.DoctorProfile], len(t.doctors)),
		patients:      make(map[uuid.UUID]row[model.PatientProfile], len(t.patients)),
		reports:       make(map[uuid.UUID]row[model.MedicalReport], len(t.reports)),
		prescriptions: make(map[uuid.UUID]row[model.Prescription], len(t.prescriptions)),
		counters:      make(map[string]int64, len(t.counters)),
	}
	for k, v := range t.accounts {
		c.accounts[k] = v
	}
	for k, v := range t.doctors {
		c.doctors[k] = v
	}
	for k, v := range t.patients {
		c.patients[k] = v
	}
	for k, v := range t.reports {
		c.reports[k] = v
	}
	for k, v := range t.prescriptions {
		c.prescriptions[k] = v
	}
	for k, v := range t.counters {
		c.counters[k] = v
	}
	return c
}

type txKey struct{}

// Store is a goroutine safe in-memory database. WithinTx snapshots every
// table and restores the snapshot when fn fails.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	seq  int
	t    tables

	// FailOn makes the named operation return an error, e.g. "patients.Create".
	FailOn map[string]error
}

func NewStore() *Store {
	return &Store{
		t: tables{
			accounts:      map[uuid.UUID]row[model.Account]{},
			doctors:       map[uuid.UUID]row[model.DoctorProfile]{},
			patients:      map[uuid.UUID]row[model.PatientProfile]{},
			reports:       map[uuid.UUID]row[model.MedicalReport]{},
			prescriptions: map[uuid.UUID]row[model.Prescription]{},
			counters:      map[string]int64{},
		},
		FailOn: map[string]error{},
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.t.clone()
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.t = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// PingContext lets the store stand in for the database in health checks.
func (s *Store) PingContext(context.Context) error {
	return s.fail("ping")
}

func (s *Store) fail(op string) error {
	if err, ok := s.FailOn[op]; ok {
		return err
	}
	return nil
}

func (s *Store) next() int {
	s.seq++
	return s.seq
}

// Counts returns the number of rows per table, handy for all-or-nothing checks.
func (s *Store) Counts() (accounts, doctors, patients, reports, prescriptions int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.t.accounts), len(s.t.doctors), len(s.t.patients), len(s.t.reports), len(s.t.prescriptions)
}

func (s *Store) Accounts() repository.AccountRepository           { return accountRepo{s} }
func (s *Store) Doctors() repository.DoctorRepository             { return doctorRepo{s} }
func (s *Store) Patients() repository.PatientRepository           { return patientRepo{s} }
func (s *Store) Reports() repository.MedicalReportRepository      { return reportRepo{s} }
func (s *Store) Prescriptions() repository.PrescriptionRepository { return prescriptionRepo{s} }
func (s *Store) Sequencer() repository.Sequencer                  { return sequencer{s} }

func notFound(op string) error {
	return fmt.Errorf("failed to %s: %w", op, repository.ErrNotFound)
}

func duplicate(op, constraint string) error {
	return fmt.Errorf("failed to %s: %s: %w", op, constraint, repository.ErrDuplicate)
}

// sortedDesc orders rows newest first.
func sortedDesc[T any](rows []row[T]) []T {
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = r.v
	}
	return out
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

type accountRepo struct{ s *Store }

func (r accountRepo) Create(_ context.Context, a *model.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("accounts.Create"); err != nil {
		return err
	}
	for _, existing := range r.s.t.accounts {
		if strings.EqualFold(existing.v.Email, a.Email) {
			return duplicate("create account", "accounts_email_key")
		}
	}
	a.Touch(time.Now().UTC())
	r.s.t.accounts[a.ID] = row[model.Account]{seq: r.s.next(), v: *a}
	return nil
}

func (r accountRepo) Get(_ context.Context, id uuid.UUID) (*model.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	got, ok := r.s.t.accounts[id]
	if !ok {
		return nil, notFound("get account")
	}
	v := got.v
	return &v, nil
}

func (r accountRepo) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, got := range r.s.t.accounts {
		if got.v.Email == email {
			v := got.v
			return &v, nil
		}
	}
	return nil, notFound("get account by email")
}

func (r accountRepo) GetMany(_ context.Context, ids []uuid.UUID) ([]*model.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.Account
	for _, id := range ids {
		if got, ok := r.s.t.accounts[id]; ok {
			v := got.v
			out = append(out, &v)
		}
	}
	return out, nil
}

func (r accountRepo) Update(_ context.Context, a *model.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("accounts.Update"); err != nil {
		return err
	}
	got, ok := r.s.t.accounts[a.ID]
	if !ok {
		return notFound("update account")
	}
	for id, existing := range r.s.t.accounts {
		if id != a.ID && strings.EqualFold(existing.v.Email, a.Email) {
			return duplicate("update account", "accounts_email_key")
		}
	}
	a.UpdatedAt = time.Now().UTC()
	r.s.t.accounts[a.ID] = row[model.Account]{seq: got.seq, v: *a}
	return nil
}

type doctorRepo struct{ s *Store }

func (r doctorRepo) Create(_ context.Context, d *model.DoctorProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("doctors.Create"); err != nil {
		return err
	}
	for _, existing := range r.s.t.doctors {
		if existing.v.LicenseNumber == d.LicenseNumber {
			return duplicate("create doctor profile", "doctor_profiles_license_number_key")
		}
		if existing.v.AccountID == d.AccountID {
			return duplicate("create doctor profile", "doctor_profiles_account_id_key")
		}
	}
	d.Touch(time.Now().UTC())
	r.s.t.doctors[d.ID] = row[model.DoctorProfile]{seq: r.s.next(), v: *d}
	return nil
}

func (r doctorRepo) Get(_ context.Context, id uuid.UUID) (*model.DoctorProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	got, ok := r.s.t.doctors[id]
	if !ok {
		return nil, notFound("get doctor profile")
	}
	v := got.v
	return &v, nil
}

func (r doctorRepo) GetByAccountID(_ context.Context, accountID uuid.UUID) (*model.DoctorProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, got := range r.s.t.doctors {
		if got.v.AccountID == accountID {
			v := got.v
			return &v, nil
		}
	}
	return nil, notFound("get doctor profile by account")
}

func (r doctorRepo) GetMany(_ context.Context, ids []uuid.UUID) ([]*model.DoctorProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.DoctorProfile
	for _, id := range ids {
		if got, ok := r.s.t.doctors[id]; ok {
			v := got.v
			out = append(out, &v)
		}
	}
	return out, nil
}

func (r doctorRepo) Update(_ context.Context, d *model.DoctorProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("doctors.Update"); err != nil {
		return err
	}
	got, ok := r.s.t.doctors[d.ID]
	if !ok {
		return notFound("update doctor profile")
	}
	for id, existing := range r.s.t.doctors {
		if id != d.ID && existing.v.LicenseNumber == d.LicenseNumber {
			return duplicate("update doctor profile", "doctor_profiles_license_number_key")
		}
	}
	d.UpdatedAt = time.Now().UTC()
	r.s.t.doctors[d.ID] = row[model.DoctorProfile]{seq: got.seq, v: *d}
	return nil
}

func (r doctorRepo) all() []model.DoctorProfile {
	rows := make([]row[model.DoctorProfile], 0, len(r.s.t.doctors))
	for _, got := range r.s.t.doctors {
		rows = append(rows, got)
	}
	return sortedDesc(rows)
}

func (r doctorRepo) List(_ context.Context, limit, offset int) ([]*model.DoctorProfile, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := r.all()
	var out []*model.DoctorProfile
	for _, d := range page(all, limit, offset) {
		d := d
		out = append(out, &d)
	}
	return out, len(all), nil
}

func (r doctorRepo) Search(_ context.Context, specialization, department string, limit int) ([]*model.DoctorProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.DoctorProfile
	for _, d := range r.all() {
		if !containsFold(d.Specialization, specialization) || !containsFold(d.Department, department) {
			continue
		}
		d := d
		out = append(out, &d)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type patientRepo struct{ s *Store }

func (r patientRepo) Create(_ context.Context, p *model.PatientProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("patients.Create"); err != nil {
		return err
	}
	for _, existing := range r.s.t.patients {
		if existing.v.PatientID == p.PatientID {
			return duplicate("create patient profile", "patient_profiles_patient_id_key")
		}
		if existing.v.AccountID == p.AccountID {
			return duplicate("create patient profile", "patient_profiles_account_id_key")
		}
	}
	p.Touch(time.Now().UTC())
	r.s.t.patients[p.ID] = row[model.PatientProfile]{seq: r.s.next(), v: *p}
	return nil
}

func (r patientRepo) Get(_ context.Context, id uuid.UUID) (*model.PatientProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	got, ok := r.s.t.patients[id]
	if !ok {
		return nil, notFound("get patient profile")
	}
	v := got.v
	return &v, nil
}

func (r patientRepo) GetByAccountID(_ context.Context, accountID uuid.UUID) (*model.PatientProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, got := range r.s.t.patients {
		if got.v.AccountID == accountID {
			v := got.v
			return &v, nil
		}
	}
	return nil, notFound("get patient profile by account")
}

func (r patientRepo) GetByPatientID(_ context.Context, patientID string) (*model.PatientProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, got := range r.s.t.patients {
		if got.v.PatientID == patientID {
			v := got.v
			return &v, nil
		}
	}
	return nil, notFound("get patient profile by patient id")
}

func (r patientRepo) GetMany(_ context.Context, ids []uuid.UUID) ([]*model.PatientProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.PatientProfile
	for _, id := range ids {
		if got, ok := r.s.t.patients[id]; ok {
			v := got.v
			out = append(out, &v)
		}
	}
	return out, nil
}

func (r patientRepo) filtered(keep func(model.PatientProfile) bool) []model.PatientProfile {
	rows := make([]row[model.PatientProfile], 0, len(r.s.t.patients))
	for _, got := range r.s.t.patients {
		if keep(got.v) {
			rows = append(rows, got)
		}
	}
	return sortedDesc(rows)
}

func (r patientRepo) List(_ context.Context, limit, offset int) ([]*model.PatientProfile, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := r.filtered(func(model.PatientProfile) bool { return true })
	var out []*model.PatientProfile
	for _, p := range page(all, limit, offset) {
		p := p
		out = append(out, &p)
	}
	return out, len(all), nil
}

func (r patientRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID, limit, offset int) ([]*model.PatientProfile, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := map[uuid.UUID]bool{}
	for _, rep := range r.s.t.reports {
		if rep.v.DoctorID == doctorID {
			seen[rep.v.PatientID] = true
		}
	}
	all := r.filtered(func(p model.PatientProfile) bool { return seen[p.ID] })
	var out []*model.PatientProfile
	for _, p := range page(all, limit, offset) {
		p := p
		out = append(out, &p)
	}
	return out, len(seen), nil
}

func (r patientRepo) Search(_ context.Context, query string, limit int) ([]*model.PatientProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := r.filtered(func(p model.PatientProfile) bool {
		acc, ok := r.s.t.accounts[p.AccountID]
		if !ok {
			return false
		}
		return containsFold(acc.v.FirstName, query) ||
			containsFold(acc.v.LastName, query) ||
			containsFold(acc.v.Email, query)
	})
	var out []*model.PatientProfile
	for _, p := range page(all, limit, 0) {
		p := p
		out = append(out, &p)
	}
	return out, nil
}

type reportRepo struct{ s *Store }

func (r reportRepo) Create(_ context.Context, rep *model.MedicalReport) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("reports.Create"); err != nil {
		return err
	}
	rep.Touch(time.Now().UTC())
	r.s.t.reports[rep.ID] = row[model.MedicalReport]{seq: r.s.next(), v: *rep}
	return nil
}

func (r reportRepo) Get(_ context.Context, id uuid.UUID) (*model.MedicalReport, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	got, ok := r.s.t.reports[id]
	if !ok {
		return nil, notFound("get medical report")
	}
	v := got.v
	return &v, nil
}

func (r reportRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*model.MedicalReport, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []row[model.MedicalReport]
	for _, got := range r.s.t.reports {
		if got.v.PatientID == patientID {
			rows = append(rows, got)
		}
	}
	all := sortedDesc(rows)
	var out []*model.MedicalReport
	for _, rep := range page(all, limit, offset) {
		rep := rep
		out = append(out, &rep)
	}
	return out, len(all), nil
}

type prescriptionRepo struct{ s *Store }

func (r prescriptionRepo) Create(_ context.Context, p *model.Prescription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("prescriptions.Create"); err != nil {
		return err
	}
	for _, existing := range r.s.t.prescriptions {
		if existing.v.PrescriptionID == p.PrescriptionID {
			return duplicate("create prescription", "prescriptions_prescription_id_key")
		}
	}
	p.Touch(time.Now().UTC())
	r.s.t.prescriptions[p.ID] = row[model.Prescription]{seq: r.s.next(), v: *p}
	return nil
}

func (r prescriptionRepo) Get(_ context.Context, id uuid.UUID) (*model.Prescription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	got, ok := r.s.t.prescriptions[id]
	if !ok {
		return nil, notFound("get prescription")
	}
	v := got.v
	return &v, nil
}

func (r prescriptionRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*model.Prescription, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []row[model.Prescription]
	for _, got := range r.s.t.prescriptions {
		if got.v.PatientID == patientID {
			rows = append(rows, got)
		}
	}
	all := sortedDesc(rows)
	var out []*model.Prescription
	for _, p := range page(all, limit, offset) {
		p := p
		out = append(out, &p)
	}
	return out, len(all), nil
}

type sequencer struct{ s *Store }

func (q sequencer) Next(_ context.Context, name string) (int64, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	if err := q.s.fail("sequence.Next"); err != nil {
		return 0, err
	}
	q.s.t.counters[name]++
	return q.s.t.counters[name], nil
}
