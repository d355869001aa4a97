package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"qrcheckin/internal/domain"
)

var errStoreDown = errors.New("connection refused")

type pairKey struct {
	attendeeID int64
	talkID     int64
}

// fakeStore is an in-memory store implementing Transactor and every repository. A failed unit of
// work is rolled back by restoring the state captured before it started.
type fakeStore struct {
	attendees   []*domain.Attendee
	talks       []*domain.Talk
	attendances map[pairKey]*domain.Attendance
	nextID      int64
	err         error // if set, every repository call returns this error
	touches     int   // number of repository calls
	txs         int   // number of units of work started

	beforeConfirm func(a *domain.Attendee) // runs inside SetGeneralConfirmed before the compare-and-set
}

func newFakeStore() *fakeStore {
	return &fakeStore{attendances: make(map[pairKey]*domain.Attendance), nextID: 1}
}

func cloneAttendee(a *domain.Attendee) *domain.Attendee {
	c := *a
	if a.ConfirmedAt != nil {
		t := *a.ConfirmedAt
		c.ConfirmedAt = &t
	}
	return &c
}

func cloneTalk(t *domain.Talk) *domain.Talk {
	c := *t
	return &c
}

func (s *fakeStore) snapshot() *fakeStore {
	cp := &fakeStore{attendances: make(map[pairKey]*domain.Attendance, len(s.attendances)), nextID: s.nextID}
	for _, a := range s.attendees {
		cp.attendees = append(cp.attendees, cloneAttendee(a))
	}
	for _, t := range s.talks {
		cp.talks = append(cp.talks, cloneTalk(t))
	}
	for k, v := range s.attendances {
		c := *v
		cp.attendances[k] = &c
	}
	return cp
}

func (s *fakeStore) restore(cp *fakeStore) {
	s.attendees, s.talks, s.attendances, s.nextID = cp.attendees, cp.talks, cp.attendances, cp.nextID
}

func (s *fakeStore) repos() domain.Repositories {
	return domain.Repositories{
		Attendees:  &fakeAttendeeRepo{s: s},
		Talks:      &fakeTalkRepo{s: s},
		Attendance: &fakeAttendanceRepo{s: s},
	}
}

func (s *fakeStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	s.txs++
	cp := s.snapshot()
	if err := fn(ctx, s.repos()); err != nil {
		s.restore(cp)
		return err
	}
	return nil
}

func (s *fakeStore) WithinReadTx(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	return s.WithinTx(ctx, fn)
}

func (s *fakeStore) touch() error {
	s.touches++
	return s.err
}

func (s *fakeStore) id() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *fakeStore) addAttendee(a *domain.Attendee) *domain.Attendee {
	a.ID = s.id()
	s.attendees = append(s.attendees, cloneAttendee(a))
	return a
}

func (s *fakeStore) addTalk(name string) *domain.Talk {
	t := &domain.Talk{ID: s.id(), Name: name}
	s.talks = append(s.talks, cloneTalk(t))
	return t
}

func (s *fakeStore) link(attendeeID, talkID int64) {
	s.attendances[pairKey{attendeeID, talkID}] = &domain.Attendance{AttendeeID: attendeeID, TalkID: talkID}
}

func (s *fakeStore) attendee(id int64) *domain.Attendee {
	for _, a := range s.attendees {
		if a.ID == id {
			return a
		}
	}
	return nil
}

type fakeAttendeeRepo struct{ s *fakeStore }

func (r *fakeAttendeeRepo) Create(ctx context.Context, a *domain.Attendee) error {
	if err := r.s.touch(); err != nil {
		return err
	}
	for _, x := range r.s.attendees {
		if x.Email == a.Email {
			return &domain.DuplicateKeyError{Field: "email"}
		}
		if x.DNI == a.DNI {
			return &domain.DuplicateKeyError{Field: "dni"}
		}
	}
	r.s.addAttendee(a)
	return nil
}

func (r *fakeAttendeeRepo) GetByID(ctx context.Context, id int64) (*domain.Attendee, error) {
	if err := r.s.touch(); err != nil {
		return nil, err
	}
	if a := r.s.attendee(id); a != nil {
		return cloneAttendee(a), nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeAttendeeRepo) FindByFragments(ctx context.Context, name, company, dni string) ([]*domain.Attendee, error) {
	if err := r.s.touch(); err != nil {
		return nil, err
	}
	out := make([]*domain.Attendee, 0)
	for _, a := range r.s.attendees {
		if keyOf(a.Name, 'N') == name && keyOf(a.Company, 'E') == company && keyOf(a.DNI, 'D') == dni {
			out = append(out, cloneAttendee(a))
		}
	}
	return out, nil
}

// keyOf mirrors RPAD(LEFT(col, 3), 3, pad).
func keyOf(v string, pad rune) string {
	r := []rune(v)
	if len(r) > 3 {
		r = r[:3]
	}
	for len(r) < 3 {
		r = append(r, pad)
	}
	return string(r)
}

func (r *fakeAttendeeRepo) SetGeneralConfirmed(ctx context.Context, id int64, at time.Time) (bool, error) {
	if err := r.s.touch(); err != nil {
		return false, err
	}
	a := r.s.attendee(id)
	if a != nil && r.s.beforeConfirm != nil {
		r.s.beforeConfirm(a)
	}
	if a == nil || a.AttendanceConfirmed {
		return false, nil
	}
	a.AttendanceConfirmed = true
	a.ConfirmedAt = &at
	return true, nil
}

func (r *fakeAttendeeRepo) List(ctx context.Context, p domain.PaginationParams) ([]*domain.Attendee, int, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	total := len(all)
	if p.Limit() > 0 {
		start := min(p.Offset(), total)
		end := min(start+p.Limit(), total)
		all = all[start:end]
	}
	return all, total, nil
}

func (r *fakeAttendeeRepo) ListAll(ctx context.Context) ([]*domain.Attendee, error) {
	if err := r.s.touch(); err != nil {
		return nil, err
	}
	out := make([]*domain.Attendee, 0, len(r.s.attendees))
	for _, a := range r.s.attendees {
		out = append(out, cloneAttendee(a))
	}
	return out, nil
}

func (r *fakeAttendeeRepo) ListConfirmed(ctx context.Context) ([]*domain.Attendee, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Attendee, 0)
	for _, a := range all {
		if a.AttendanceConfirmed {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAttendeeRepo) Count(ctx context.Context) (int, error) {
	all, err := r.ListAll(ctx)
	return len(all), err
}

func (r *fakeAttendeeRepo) CountConfirmed(ctx context.Context) (int, error) {
	c, err := r.ListConfirmed(ctx)
	return len(c), err
}

type fakeTalkRepo struct{ s *fakeStore }

func (r *fakeTalkRepo) Create(ctx context.Context, t *domain.Talk) error {
	if err := r.s.touch(); err != nil {
		return err
	}
	t.ID = r.s.id()
	r.s.talks = append(r.s.talks, cloneTalk(t))
	return nil
}

func (r *fakeTalkRepo) GetByID(ctx context.Context, id int64) (*domain.Talk, error) {
	if err := r.s.touch(); err != nil {
		return nil, err
	}
	for _, t := range r.s.talks {
		if t.ID == id {
			return cloneTalk(t), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeTalkRepo) List(ctx context.Context) ([]*domain.Talk, error) {
	if err := r.s.touch(); err != nil {
		return nil, err
	}
	out := make([]*domain.Talk, 0, len(r.s.talks))
	for _, t := range r.s.talks {
		out = append(out, cloneTalk(t))
	}
	return out, nil
}

func (r *fakeTalkRepo) Update(ctx context.Context, t *domain.Talk) error {
	if err := r.s.touch(); err != nil {
		return err
	}
	for i, x := range r.s.talks {
		if x.ID == t.ID {
			r.s.talks[i] = cloneTalk(t)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeTalkRepo) Delete(ctx context.Context, id int64) error {
	if err := r.s.touch(); err != nil {
		return err
	}
	for k := range r.s.attendances {
		if k.talkID == id {
			delete(r.s.attendances, k)
		}
	}
	for i, x := range r.s.talks {
		if x.ID == id {
			r.s.talks = append(r.s.talks[:i], r.s.talks[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeTalkRepo) Count(ctx context.Context) (int, error) {
	if err := r.s.touch(); err != nil {
		return 0, err
	}
	return len(r.s.talks), nil
}

type fakeAttendanceRepo struct{ s *fakeStore }

func (r *fakeAttendanceRepo) Link(ctx context.Context, attendeeID, talkID int64) (bool, error) {
	if err := r.s.touch(); err != nil {
		return false, err
	}
	k := pairKey{attendeeID, talkID}
	if _, ok := r.s.attendances[k]; ok {
		return false, nil
	}
	r.s.link(attendeeID, talkID)
	return true, nil
}

func (r *fakeAttendanceRepo) SetAttended(ctx context.Context, attendeeID, talkID int64, at time.Time) (domain.TalkConfirmResult, error) {
	if err := r.s.touch(); err != nil {
		return 0, err
	}
	att, ok := r.s.attendances[pairKey{attendeeID, talkID}]
	switch {
	case !ok:
		return domain.TalkNotLinked, nil
	case att.Attended:
		return domain.TalkAlreadyAttended, nil
	}
	att.Attended = true
	att.ConfirmedAt = &at
	return domain.TalkConfirmed, nil
}

func (r *fakeAttendanceRepo) ListTalksForAttendee(ctx context.Context, attendeeID int64) ([]*domain.Talk, error) {
	if err := r.s.touch(); err != nil {
		return nil, err
	}
	out := make([]*domain.Talk, 0)
	for _, t := range r.s.talks {
		if _, ok := r.s.attendances[pairKey{attendeeID, t.ID}]; ok {
			out = append(out, cloneTalk(t))
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) ListByTalk(ctx context.Context, talkID int64) ([]*domain.AttendanceRecord, error) {
	if err := r.s.touch(); err != nil {
		return nil, err
	}
	out := make([]*domain.AttendanceRecord, 0)
	for _, a := range r.s.attendees {
		if att, ok := r.s.attendances[pairKey{a.ID, talkID}]; ok {
			c := *att
			out = append(out, &domain.AttendanceRecord{Attendance: &c, Attendee: cloneAttendee(a)})
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) ListAttendedAttendeeIDs(ctx context.Context) (map[int64][]int64, error) {
	if err := r.s.touch(); err != nil {
		return nil, err
	}
	out := make(map[int64][]int64)
	for k, v := range r.s.attendances {
		if v.Attended {
			out[k.talkID] = append(out[k.talkID], k.attendeeID)
		}
	}
	for _, ids := range out {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}
	return out, nil
}

func (r *fakeAttendanceRepo) CountAttended(ctx context.Context) (int, error) {
	if err := r.s.touch(); err != nil {
		return 0, err
	}
	n := 0
	for _, v := range r.s.attendances {
		if v.Attended {
			n++
		}
	}
	return n, nil
}

func (r *fakeAttendanceRepo) TalkStats(ctx context.Context) ([]*domain.TalkStats, error) {
	if err := r.s.touch(); err != nil {
		return nil, err
	}
	out := make([]*domain.TalkStats, 0, len(r.s.talks))
	for _, t := range r.s.talks {
		st := &domain.TalkStats{TalkID: t.ID, Name: t.Name}
		for k, v := range r.s.attendances {
			if k.talkID != t.ID {
				continue
			}
			st.Registered++
			if v.Attended {
				st.Attended++
			}
		}
		out = append(out, st)
	}
	return out, nil
}

// fakeClock returns start, then start plus one second on every following call.
func fakeClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		t := next
		next = next.Add(time.Second)
		return t
	}
}
