package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/identityadmin/admin-service/internal/core/domain"
	"github.com/identityadmin/admin-service/internal/core/query"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories. Like the Mongo adapters they keep references
// as id-only stubs, so reads exercise hydration.
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.User
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func storedUser(u *domain.User) *domain.User {
	clone := *u
	clone.Roles = append([]domain.Role(nil), u.Roles...)
	if u.Person != nil {
		clone.Person = &domain.Person{ID: u.Person.ID}
	}
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.byID {
		if existing.Username == u.Username {
			return domain.ErrConflict
		}
	}
	r.byID[u.ID] = storedUser(u)
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; !ok {
		return domain.NewNotFound(domain.KindUser, u.ID)
	}
	r.byID[u.ID] = storedUser(u)
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.NewNotFound(domain.KindUser, id)
	}
	u.Password = hash
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFound(domain.KindUser, id)
	}
	return storedUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == username {
			return storedUser(u), nil
		}
	}
	return nil, domain.NewNotFound(domain.KindUser, username)
}

func (r *stubUserRepo) FindByPersonID(_ context.Context, personID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Person != nil && u.Person.ID == personID {
			return storedUser(u), nil
		}
	}
	return nil, domain.NewNotFound(domain.KindUser, personID)
}

// Search applies the spec the same way the Mongo adapter's filter does,
// ordering by username for determinism.
func (r *stubUserRepo) Search(_ context.Context, spec query.Spec) ([]*domain.User, int64, error) {
	r.mu.Lock()
	all := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		all = append(all, storedUser(u))
	}
	r.mu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	matched := query.Filter(all, spec)
	return query.Slice(matched, spec.Page), int64(len(matched)), nil
}

func (r *stubUserRepo) get(id string) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		return storedUser(u)
	}
	return nil
}

func (r *stubUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

type stubPersonRepo struct {
	byID map[string]*domain.Person
}

func newStubPersonRepo() *stubPersonRepo {
	return &stubPersonRepo{byID: make(map[string]*domain.Person)}
}

func storedPerson(p *domain.Person) *domain.Person {
	clone := *p
	if p.Address != nil {
		clone.Address = &domain.Address{ID: p.Address.ID}
	}
	if p.BirthCity != nil {
		clone.BirthCity = &domain.City{ID: p.BirthCity.ID}
	}
	if p.BirthCountry != nil {
		clone.BirthCountry = &domain.Country{ID: p.BirthCountry.ID}
	}
	return &clone
}

func (r *stubPersonRepo) Create(_ context.Context, p *domain.Person) error {
	r.byID[p.ID] = storedPerson(p)
	return nil
}

func (r *stubPersonRepo) Update(_ context.Context, p *domain.Person) error {
	if _, ok := r.byID[p.ID]; !ok {
		return domain.NewNotFound(domain.KindPerson, p.ID)
	}
	r.byID[p.ID] = storedPerson(p)
	return nil
}

func (r *stubPersonRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *stubPersonRepo) FindByID(_ context.Context, id string) (*domain.Person, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFound(domain.KindPerson, id)
	}
	return storedPerson(p), nil
}

func (r *stubPersonRepo) FindByEmail(_ context.Context, email string) (*domain.Person, error) {
	for _, p := range r.byID {
		if strings.EqualFold(p.Email, email) {
			return storedPerson(p), nil
		}
	}
	return nil, domain.NewNotFound(domain.KindPerson, email)
}

func (r *stubPersonRepo) Search(_ context.Context, spec query.Spec) ([]*domain.Person, int64, error) {
	all := make([]*domain.Person, 0, len(r.byID))
	for _, p := range r.byID {
		all = append(all, storedPerson(p))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].FirstName < all[j].FirstName })
	matched := query.Filter(all, spec)
	return query.Slice(matched, spec.Page), int64(len(matched)), nil
}

type stubAddressRepo struct {
	byID map[string]*domain.Address
}

func newStubAddressRepo() *stubAddressRepo {
	return &stubAddressRepo{byID: make(map[string]*domain.Address)}
}

func storedAddress(a *domain.Address) *domain.Address {
	clone := *a
	if a.City != nil {
		clone.City = &domain.City{ID: a.City.ID}
	}
	return &clone
}

func (r *stubAddressRepo) Create(_ context.Context, a *domain.Address) error {
	r.byID[a.ID] = storedAddress(a)
	return nil
}

func (r *stubAddressRepo) Update(_ context.Context, a *domain.Address) error {
	if _, ok := r.byID[a.ID]; !ok {
		return domain.NewNotFound(domain.KindAddress, a.ID)
	}
	r.byID[a.ID] = storedAddress(a)
	return nil
}

func (r *stubAddressRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *stubAddressRepo) FindByID(_ context.Context, id string) (*domain.Address, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFound(domain.KindAddress, id)
	}
	return storedAddress(a), nil
}

func (r *stubAddressRepo) Search(_ context.Context, spec query.Spec) ([]*domain.Address, int64, error) {
	all := make([]*domain.Address, 0, len(r.byID))
	for _, a := range r.byID {
		all = append(all, storedAddress(a))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	matched := query.Filter(all, spec)
	return query.Slice(matched, spec.Page), int64(len(matched)), nil
}

// stubRoleRepo enforces name uniqueness and makes EnsureRole an atomic
// insert-if-absent, like the unique index plus upsert in Mongo.
type stubRoleRepo struct {
	mu      sync.Mutex
	byID    map[string]domain.Role
	seq     int
	ensured int
}

func newStubRoleRepo(roles ...domain.Role) *stubRoleRepo {
	r := &stubRoleRepo{byID: make(map[string]domain.Role)}
	for _, role := range roles {
		r.byID[role.ID] = role
	}
	return r
}

func (r *stubRoleRepo) FindByID(_ context.Context, id string) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFound(domain.KindRole, id)
	}
	return &role, nil
}

func (r *stubRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findByNameLocked(name)
}

func (r *stubRoleRepo) findByNameLocked(name string) (*domain.Role, error) {
	for _, role := range r.byID {
		if role.Name == name {
			found := role
			return &found, nil
		}
	}
	return nil, domain.NewNotFound(domain.KindRole, name)
}

func (r *stubRoleRepo) FindAll(_ context.Context) ([]domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Role, 0, len(r.byID))
	for _, role := range r.byID {
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubRoleRepo) EnsureRole(_ context.Context, name string) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensured++
	if role, err := r.findByNameLocked(name); err == nil {
		return role, nil
	}
	r.seq++
	role := domain.Role{ID: fmt.Sprintf("role-%s-%d", strings.ToLower(name), r.seq), Name: name}
	r.byID[role.ID] = role
	return &role, nil
}

func (r *stubRoleRepo) countByName(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, role := range r.byID {
		if role.Name == name {
			n++
		}
	}
	return n
}

type stubGeoRepo struct {
	countries map[string]domain.Country
	states    map[string]domain.State
	cities    map[string]domain.City
	err       error
}

// newStubGeoRepo seeds Brazil/São Paulo/Campinas and Brazil/Rio de Janeiro.
func newStubGeoRepo() *stubGeoRepo {
	br := domain.Country{ID: "BR", Name: "Brasil"}
	sp := domain.State{ID: "SP", Name: "São Paulo", Country: &br}
	rj := domain.State{ID: "RJ", Name: "Rio de Janeiro", Country: &br}
	return &stubGeoRepo{
		countries: map[string]domain.Country{"BR": br},
		states:    map[string]domain.State{"SP": sp, "RJ": rj},
		cities: map[string]domain.City{
			"CPQ": {ID: "CPQ", Name: "Campinas", State: &sp},
			"SAO": {ID: "SAO", Name: "São Paulo", State: &sp},
			"RIO": {ID: "RIO", Name: "Rio de Janeiro", State: &rj},
		},
	}
}

func (g *stubGeoRepo) Countries(_ context.Context) ([]domain.Country, error) {
	if g.err != nil {
		return nil, g.err
	}
	out := make([]domain.Country, 0, len(g.countries))
	for _, c := range g.countries {
		out = append(out, c)
	}
	return out, nil
}

func (g *stubGeoRepo) States(_ context.Context, countryID string) ([]domain.State, error) {
	if g.err != nil {
		return nil, g.err
	}
	out := []domain.State{}
	for _, s := range g.states {
		if s.Country != nil && s.Country.ID == countryID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (g *stubGeoRepo) Cities(_ context.Context, countryID, stateID string) ([]domain.City, error) {
	if g.err != nil {
		return nil, g.err
	}
	out := []domain.City{}
	for _, c := range g.cities {
		if c.State != nil && c.State.ID == stateID && c.CountryID() == countryID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (g *stubGeoRepo) CountryByID(_ context.Context, id string) (*domain.Country, error) {
	if g.err != nil {
		return nil, g.err
	}
	c, ok := g.countries[id]
	if !ok {
		return nil, domain.NewNotFound(domain.KindCountry, id)
	}
	return &c, nil
}

func (g *stubGeoRepo) StateByID(_ context.Context, id string) (*domain.State, error) {
	if g.err != nil {
		return nil, g.err
	}
	s, ok := g.states[id]
	if !ok {
		return nil, domain.NewNotFound(domain.KindState, id)
	}
	return &s, nil
}

func (g *stubGeoRepo) CityByID(_ context.Context, id string) (*domain.City, error) {
	if g.err != nil {
		return nil, g.err
	}
	c, ok := g.cities[id]
	if !ok {
		return nil, domain.NewNotFound(domain.KindCity, id)
	}
	return &c, nil
}

// stubTx runs fn directly and counts invocations.
type stubTx struct {
	mu    sync.Mutex
	calls int
}

func (t *stubTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()
	return fn(ctx)
}

var errStorage = errors.New("storage unavailable")

// ---------------------------------------------------------------------------
// Fixture wiring
// ---------------------------------------------------------------------------

type fixture struct {
	users     *stubUserRepo
	persons   *stubPersonRepo
	addresses *stubAddressRepo
	roles     *stubRoleRepo
	geo       *stubGeoRepo
	tx        *stubTx

	resolver    *GeoResolver
	mapper      *EntityMapper
	provisioner *RoleProvisioner
	creds       *CredentialManager

	userSvc    *UserService
	personSvc  *PersonService
	addressSvc *AddressService
}

func newFixture(roles ...domain.Role) *fixture {
	log := zerolog.Nop()
	f := &fixture{
		users:     newStubUserRepo(),
		persons:   newStubPersonRepo(),
		addresses: newStubAddressRepo(),
		roles:     newStubRoleRepo(roles...),
		geo:       newStubGeoRepo(),
		tx:        &stubTx{},
	}
	f.resolver = NewGeoResolver(f.geo, log)
	f.mapper = NewEntityMapper(f.resolver, f.persons, f.addresses, log)
	f.provisioner = NewRoleProvisioner(f.roles, domain.RoleClient, log)
	f.creds = NewCredentialManager(f.users, f.persons, bcrypt.MinCost, log)
	f.userSvc = NewUserService(f.users, f.roles, f.tx, f.mapper, f.provisioner, f.creds, log)
	f.personSvc = NewPersonService(f.persons, f.tx, f.mapper, log)
	f.addressSvc = NewAddressService(f.addresses, f.tx, f.mapper, f.resolver, log)
	return f
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
