package service_test

import (
	"context"
	"sort"

	"github.com/maxviazov/billing-admin-service/internal/model"
	"github.com/maxviazov/billing-admin-service/internal/pagination"
	"github.com/maxviazov/billing-admin-service/internal/repository"
)

type fakeStaffRepo struct {
	nextID    int64
	items     map[int64]model.Admin
	createErr error
	lastList  repository.StaffFilter
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{nextID: 1, items: map[int64]model.Admin{}}
}

func (f *fakeStaffRepo) add(a model.Admin) model.Admin {
	a.ID = f.nextID
	f.nextID++
	f.items[a.ID] = a
	return a
}

func (f *fakeStaffRepo) Create(_ context.Context, a model.Admin) (model.Admin, error) {
	if f.createErr != nil {
		return model.Admin{}, f.createErr
	}
	for _, it := range f.items {
		if it.Email == a.Email {
			return model.Admin{}, repository.ErrAlreadyExists
		}
	}
	return f.add(a), nil
}

func (f *fakeStaffRepo) GetByID(_ context.Context, id int64) (model.Admin, error) {
	it, ok := f.items[id]
	if !ok {
		return model.Admin{}, repository.ErrNotFound
	}
	return it, nil
}

func (f *fakeStaffRepo) GetByEmail(_ context.Context, email string) (model.Admin, error) {
	for _, it := range f.items {
		if it.Email == email {
			return it, nil
		}
	}
	return model.Admin{}, repository.ErrNotFound
}

func (f *fakeStaffRepo) Update(_ context.Context, a model.Admin) (model.Admin, error) {
	if _, ok := f.items[a.ID]; !ok {
		return model.Admin{}, repository.ErrNotFound
	}
	f.items[a.ID] = a
	return a, nil
}

func (f *fakeStaffRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	it, ok := f.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	it.PasswordHash = hash
	f.items[id] = it
	return nil
}

func (f *fakeStaffRepo) UpdatePermissions(_ context.Context, id int64, permissions string) error {
	it, ok := f.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	it.Permissions = permissions
	f.items[id] = it
	return nil
}

func (f *fakeStaffRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeStaffRepo) sorted() []model.Admin {
	out := make([]model.Admin, 0, len(f.items))
	for _, it := range f.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeStaffRepo) List(_ context.Context, flt repository.StaffFilter, p pagination.Request) (pagination.ResultSet[model.Admin], error) {
	if err := p.Validate(); err != nil {
		return pagination.ResultSet[model.Admin]{}, err
	}
	f.lastList = flt
	var all []model.Admin
	for _, it := range f.sorted() {
		if it.Role != model.RoleCron {
			all = append(all, it)
		}
	}
	return pageOf(all, p), nil
}

func (f *fakeStaffRepo) ListByGroup(_ context.Context, groupID int64) ([]model.Admin, error) {
	var out []model.Admin
	for _, it := range f.sorted() {
		if it.AdminGroupID == groupID {
			out = append(out, it)
		}
	}
	return out, nil
}

func pageOf[T any](all []T, p pagination.Request) pagination.ResultSet[T] {
	start := p.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + p.PerPage
	if end > len(all) {
		end = len(all)
	}
	return pagination.NewResultSet(p, len(all), all[start:end])
}

type fakeGroupRepo struct {
	nextID int64
	items  map[int64]model.AdminGroup
	staff  *fakeStaffRepo
}

func newFakeGroupRepo(staff *fakeStaffRepo) *fakeGroupRepo {
	return &fakeGroupRepo{
		nextID: 3,
		items: map[int64]model.AdminGroup{
			1: {ID: 1, Name: "Administrators"},
			2: {ID: 2, Name: "Support"},
		},
		staff: staff,
	}
}

func (f *fakeGroupRepo) Create(_ context.Context, g model.AdminGroup) (model.AdminGroup, error) {
	g.ID = f.nextID
	f.nextID++
	f.items[g.ID] = g
	return g, nil
}

func (f *fakeGroupRepo) GetByID(_ context.Context, id int64) (model.AdminGroup, error) {
	it, ok := f.items[id]
	if !ok {
		return model.AdminGroup{}, repository.ErrNotFound
	}
	return it, nil
}

func (f *fakeGroupRepo) Update(_ context.Context, g model.AdminGroup) (model.AdminGroup, error) {
	f.items[g.ID] = g
	return g, nil
}

func (f *fakeGroupRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeGroupRepo) CountMembers(ctx context.Context, id int64) (int, error) {
	m, _ := f.staff.ListByGroup(ctx, id)
	return len(m), nil
}

func (f *fakeGroupRepo) Pairs(context.Context) (map[int64]string, error) {
	out := map[int64]string{}
	for id, g := range f.items {
		out[id] = g.Name
	}
	return out, nil
}

func (f *fakeGroupRepo) List(_ context.Context, _ string, p pagination.Request) (pagination.ResultSet[model.AdminGroup], error) {
	var all []model.AdminGroup
	for id := int64(1); id < f.nextID; id++ {
		if g, ok := f.items[id]; ok {
			all = append(all, g)
		}
	}
	return pageOf(all, p), nil
}

type fakeLoginRepo struct {
	items         map[int64]model.AdminLogin
	deletedAdmins []int64
	deleteErr     error
}

func newFakeLoginRepo() *fakeLoginRepo {
	return &fakeLoginRepo{items: map[int64]model.AdminLogin{}}
}

func (f *fakeLoginRepo) Create(_ context.Context, l model.AdminLogin) (model.AdminLogin, error) {
	l.ID = int64(len(f.items) + 1)
	f.items[l.ID] = l
	return l, nil
}

func (f *fakeLoginRepo) GetByID(_ context.Context, id int64) (model.AdminLogin, error) {
	it, ok := f.items[id]
	if !ok {
		return model.AdminLogin{}, repository.ErrNotFound
	}
	return it, nil
}

func (f *fakeLoginRepo) Delete(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeLoginRepo) DeleteByAdmin(_ context.Context, adminID int64) error {
	f.deletedAdmins = append(f.deletedAdmins, adminID)
	return nil
}

func (f *fakeLoginRepo) List(_ context.Context, _ repository.LoginHistoryFilter, p pagination.Request) (pagination.ResultSet[model.AdminLogin], error) {
	var all []model.AdminLogin
	for id := int64(len(f.items)); id >= 1; id-- {
		if l, ok := f.items[id]; ok {
			all = append(all, l)
		}
	}
	return pageOf(all, p), nil
}

// fakeTx runs fn inline and counts transactions.
type fakeTx struct{ calls int }

func (f *fakeTx) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	f.calls++
	return fn(ctx)
}

type fakeClientRepo struct{ items map[int64]model.Client }

func (f *fakeClientRepo) Create(_ context.Context, c model.Client) (model.Client, error) {
	c.ID = int64(len(f.items) + 1)
	f.items[c.ID] = c
	return c, nil
}

func (f *fakeClientRepo) GetByID(_ context.Context, id int64) (model.Client, error) {
	c, ok := f.items[id]
	if !ok {
		return model.Client{}, repository.ErrNotFound
	}
	return c, nil
}

type fakeLedger struct {
	entries    []model.ClientBalance
	lastFilter repository.BalanceFilter
}

func (f *fakeLedger) Create(_ context.Context, b model.ClientBalance) (model.ClientBalance, error) {
	b.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, b)
	return b, nil
}

func (f *fakeLedger) GetByID(_ context.Context, id int64) (model.ClientBalance, error) {
	for _, e := range f.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return model.ClientBalance{}, repository.ErrNotFound
}

func (f *fakeLedger) ClientTotal(_ context.Context, clientID int64) (float64, error) {
	var sum float64
	for _, e := range f.entries {
		if e.ClientID == clientID {
			sum += e.Amount
		}
	}
	return sum, nil
}

func (f *fakeLedger) Delete(_ context.Context, id int64) error {
	for i, e := range f.entries {
		if e.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeLedger) DeleteByClient(_ context.Context, clientID int64) (int64, error) {
	var kept []model.ClientBalance
	var n int64
	for _, e := range f.entries {
		if e.ClientID == clientID {
			n++
			continue
		}
		kept = append(kept, e)
	}
	f.entries = kept
	return n, nil
}

func (f *fakeLedger) List(_ context.Context, flt repository.BalanceFilter, p pagination.Request) (pagination.ResultSet[model.ClientBalance], error) {
	f.lastFilter = flt
	var all []model.ClientBalance
	for i := len(f.entries) - 1; i >= 0; i-- {
		if flt.ClientID == 0 || f.entries[i].ClientID == flt.ClientID {
			all = append(all, f.entries[i])
		}
	}
	return pageOf(all, p), nil
}

var (
	_ repository.StaffRepository        = (*fakeStaffRepo)(nil)
	_ repository.GroupRepository        = (*fakeGroupRepo)(nil)
	_ repository.LoginHistoryRepository = (*fakeLoginRepo)(nil)
	_ repository.TxManager              = (*fakeTx)(nil)
	_ repository.ClientRepository       = (*fakeClientRepo)(nil)
	_ repository.BalanceRepository      = (*fakeLedger)(nil)
)
