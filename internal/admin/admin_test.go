package admin_test

import (
	"bytes"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"landora/internal/admin"
	"landora/internal/models"
	"landora/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func beachCottage() admin.PropertyForm {
	return admin.PropertyForm{
		Name:         "Beach Cottage",
		Location:     "Goa",
		Price:        "500000",
		Description:  "Sea view",
		Availability: "true",
	}
}

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestPropertyForm_Validate(t *testing.T) {
	v := validation.New()

	assert.NoError(t, beachCottage().Validate(v))

	form := beachCottage()
	form.Name = "123"
	err := form.Validate(v)
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Name must contain only letters and spaces", verrs.Map()["name"])

	for _, price := range []string{"0", "-5"} {
		form := beachCottage()
		form.Price = price
		err := form.Validate(v)
		require.ErrorAs(t, err, &verrs, price)
		assert.Equal(t, "Price must be a positive number", verrs.Map()["price"], price)
	}

	form = beachCottage()
	form.Price = "abc"
	require.ErrorAs(t, form.Validate(v), &verrs)
	assert.Equal(t, "Price must be a number", verrs.Map()["price"])

	// Every failing field is reported.
	err = admin.PropertyForm{Name: "!!", Location: "#", Price: "", Description: "@"}.Validate(v)
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 4)
}

func TestPropertyForm_Conversion(t *testing.T) {
	p, err := beachCottage().ToProperty("42")
	require.NoError(t, err)
	assert.Equal(t, models.Property{
		ID: "42", Name: "Beach Cottage", Location: "Goa", Price: 500000, Description: "Sea view", Availability: true,
	}, p)

	form := beachCottage()
	form.Availability = "false"
	form.Price = "1250.50"
	p, err = form.ToProperty("43")
	require.NoError(t, err)
	assert.False(t, p.Availability)
	assert.Equal(t, 1250.5, p.Price)

	back := admin.FormFromProperty(p)
	assert.Equal(t, "1250.5", back.Price)
	assert.Equal(t, "false", back.Availability)

	form.Availability = ""
	p, err = form.ToProperty("44")
	require.NoError(t, err)
	assert.True(t, p.Availability)
}

func TestDetails(t *testing.T) {
	p, _ := beachCottage().ToProperty("7")
	details := admin.Details(p)
	got := map[string]string{}
	for _, d := range details {
		got[d.Label] = d.Value
	}
	assert.Equal(t, "Available", got["Availability"])
	assert.Equal(t, "500000", got["Price"])
	assert.Equal(t, "N/A", got["Buyer ID"])
	assert.Equal(t, "N/A", got["Vendor ID"])
}

func TestFilter(t *testing.T) {
	list := []models.Property{
		{ID: "1", Name: "Lake House", Location: "Udaipur", Description: "Quiet"},
		{ID: "2", Name: "City Flat", Location: "Mumbai", Description: "Near the LAKE front"},
		{ID: "3", Name: "Farm", Location: "Lakeview Road", Description: "Fields"},
		{ID: "4", Name: "Cabin", Location: "Manali", Description: "Snow"},
	}

	ids := func(ps []models.Property) []string {
		out := []string{}
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	assert.Equal(t, []string{"1", "2", "3"}, ids(admin.Filter(list, "lake", admin.MatchAny)))
	assert.Equal(t, []string{"1"}, ids(admin.Filter(list, "LAKE", admin.MatchName)))
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(admin.Filter(list, "", admin.MatchAny)))
	assert.Empty(t, admin.Filter(list, "desert", admin.MatchAny))
	assert.Equal(t, "Lake House", list[0].Name, "input untouched")
}

func TestReduce(t *testing.T) {
	s0 := admin.State{}

	s1, err := admin.Reduce(s0, admin.Create{ID: "1", Form: beachCottage()})
	require.NoError(t, err)
	require.Len(t, s1.Properties, 1)
	assert.Empty(t, s0.Properties, "previous state unchanged")

	_, err = admin.Reduce(s1, admin.Create{Form: beachCottage()})
	assert.ErrorIs(t, err, admin.ErrMissingID)

	form := beachCottage()
	form.Name = "Hill Cottage"
	form.Availability = "false"
	s2, err := admin.Reduce(s1, admin.Update{ID: "1", Form: form})
	require.NoError(t, err)
	assert.Equal(t, "Hill Cottage", s2.Properties[0].Name)
	assert.Equal(t, "1", s2.Properties[0].ID)
	assert.False(t, s2.Properties[0].Availability)
	assert.Equal(t, "Beach Cottage", s1.Properties[0].Name)

	_, err = admin.Reduce(s2, admin.Update{ID: "9", Form: form})
	assert.ErrorIs(t, err, models.ErrPropertyNotFound)

	s3, err := admin.Reduce(s2, admin.SetSearch{Query: "hill"})
	require.NoError(t, err)
	assert.Equal(t, "hill", s3.Query)

	s4, err := admin.Reduce(s3, admin.Delete{ID: "1"})
	require.NoError(t, err)
	assert.Empty(t, s4.Properties)
	assert.Len(t, s3.Properties, 1)

	_, err = admin.Reduce(s4, admin.Delete{ID: "1"})
	assert.ErrorIs(t, err, models.ErrPropertyNotFound)
}

func TestStore_Scenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin.json")
	store, err := admin.NewStore(admin.NewFileStorage(path), nil, admin.WithClock(fixedClock(1700000000000)))
	require.NoError(t, err)

	state, err := store.Dispatch(admin.Create{Form: beachCottage()})
	require.NoError(t, err)
	require.Len(t, state.Properties, 1)
	assert.Equal(t, "1700000000000", state.Properties[0].ID)

	// Same millisecond still yields a fresh id.
	state, err = store.Dispatch(admin.Create{Form: beachCottage()})
	require.NoError(t, err)
	assert.Equal(t, "1700000000001", state.Properties[1].ID)

	// State survives a reload.
	reloaded, err := admin.NewStore(admin.NewFileStorage(path), nil)
	require.NoError(t, err)
	assert.Equal(t, state.Properties, reloaded.State().Properties)

	raw, ok, err := admin.NewFileStorage(path).GetItem(admin.StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `"price":"500000"`)
	assert.Contains(t, raw, `"availability":"true"`)

	_, err = store.Dispatch(admin.Delete{ID: "1700000000000"})
	require.NoError(t, err)
	_, err = store.Dispatch(admin.Delete{ID: "1700000000001"})
	require.NoError(t, err)
	assert.Empty(t, store.State().Properties)
}

func TestStore_RejectsInvalidForms(t *testing.T) {
	store, err := admin.NewStore(admin.NewMemoryStorage(), nil)
	require.NoError(t, err)

	form := beachCottage()
	form.Name = "123"
	_, err = store.Dispatch(admin.Create{Form: form})
	assert.True(t, validation.IsValidationError(err))

	for _, price := range []string{"0", "-5"} {
		form := beachCottage()
		form.Price = price
		_, err = store.Dispatch(admin.Create{Form: form})
		assert.True(t, validation.IsValidationError(err), price)
	}
	assert.Empty(t, store.State().Properties)
}

func TestStore_SearchAndVisible(t *testing.T) {
	store, err := admin.NewStore(admin.NewMemoryStorage(), nil)
	require.NoError(t, err)

	lake := beachCottage()
	lake.Name = "Lake House"
	_, err = store.Dispatch(admin.Create{Form: lake})
	require.NoError(t, err)
	_, err = store.Dispatch(admin.Create{Form: beachCottage()})
	require.NoError(t, err)

	_, err = store.Dispatch(admin.SetSearch{Query: "lake"})
	require.NoError(t, err)
	visible := store.Visible(admin.MatchAny)
	require.Len(t, visible, 1)
	assert.Equal(t, "Lake House", visible[0].Name)
	assert.Len(t, store.State().Properties, 2)
}

func TestStore_ReadsTypedValues(t *testing.T) {
	storage := admin.NewMemoryStorage()
	require.NoError(t, storage.SetItem(admin.StorageKey,
		`[{"id":1700000000000,"name":"Lake House","location":"Udaipur","price":250000,"description":"Quiet","availability":false}]`))

	store, err := admin.NewStore(storage, nil)
	require.NoError(t, err)
	p, ok := store.Get("1700000000000")
	require.True(t, ok)
	assert.Equal(t, 250000.0, p.Price)
	assert.False(t, p.Availability)

	_, err = admin.NewStore(storageWith(`{not json`), nil)
	assert.Error(t, err)
}

type failingStorage struct{ *admin.MemoryStorage }

func (failingStorage) SetItem(string, string) error { return errors.New("quota exceeded") }

func TestStore_PersistFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	store, err := admin.NewStore(failingStorage{admin.NewMemoryStorage()}, log)
	require.NoError(t, err)

	state, err := store.Dispatch(admin.Create{Form: beachCottage()})
	require.NoError(t, err)
	assert.Len(t, state.Properties, 1)
	assert.Contains(t, buf.String(), "quota exceeded")
}

func storageWith(raw string) *admin.MemoryStorage {
	s := admin.NewMemoryStorage()
	_ = s.SetItem(admin.StorageKey, raw)
	return s
}
