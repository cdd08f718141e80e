package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic_Contains(t *testing.T) {
	s := NewStatic()

	tests := []struct {
		catalog Name
		code    string
		want    bool
	}{
		{FormaPago, "01", true},
		{FormaPago, "99", true},
		{FormaPago, "00", false},
		{Moneda, "MXN", true},
		{Moneda, "USD", true},
		{Moneda, "XXX", true},
		{Moneda, "XGB", false},
		{TipoDeComprobante, "I", true},
		{TipoDeComprobante, "X", false},
		{Exportacion, "01", true},
		{Exportacion, "05", false},
		{MetodoPago, "PUE", true},
		{MetodoPago, "PPD", true},
		{MetodoPago, "PIP", false},
		{Periodicidad, "05", true},
		{Periodicidad, "06", false},
		{Meses, "18", true},
		{Meses, "19", false},
		{TipoRelacion, "09", true},
		{RegimenFiscal, "601", true},
		{RegimenFiscal, "600", false},
		{Pais, "MEX", true},
		{Pais, "ZZZ", true},
		{Pais, "XYZ", false},
		{UsoCFDI, "G03", true},
		{UsoCFDI, "G09", false},
		{ObjetoImp, "02", true},
		{Impuesto, "002", true},
		{Impuesto, "004", false},
		{TipoFactor, "Tasa", true},
		{TipoFactor, "Exento", true},
		{TipoFactor, "tasa", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Contains(tt.catalog, tt.code),
			"%s/%s", tt.catalog, tt.code)
	}
}

func TestStatic_Lookup(t *testing.T) {
	s := NewStatic()

	desc, err := s.Lookup(FormaPago, "01")
	require.NoError(t, err)
	assert.Equal(t, "Efectivo", desc)

	desc, err = s.Lookup(Impuesto, "002")
	require.NoError(t, err)
	assert.Equal(t, "IVA", desc)

	_, err = s.Lookup(FormaPago, "00")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, FormaPago, nf.Catalog)
	assert.Equal(t, "00", nf.Code)
}

func TestStatic_OpenCatalogsAbsent(t *testing.T) {
	// The open-ended catalogs are not compiled in; codes are
	// shape-checked by the parser instead.
	s := NewStatic()
	for _, cat := range []Name{ClaveProdServ, ClaveUnidad, Aduana} {
		assert.False(t, s.Contains(cat, "01010101"), "%s", cat)

		_, err := s.Lookup(cat, "01010101")
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
	}
}

func TestNotFoundError_Error(t *testing.T) {
	assert.Equal(t, `code "00" not found in catalog "forma_pago"`,
		(&NotFoundError{Catalog: FormaPago, Code: "00"}).Error())
	assert.Equal(t, `catalog "aduana" not found`,
		(&NotFoundError{Catalog: Aduana}).Error())
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	content := `{"01": "Efectivo", "03": "Transferencia electrónica de fondos"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "forma_pago.json"), []byte(content), 0o644))

	s := NewFileStore(dir)

	desc, err := s.Lookup(FormaPago, "03")
	require.NoError(t, err)
	assert.Equal(t, "Transferencia electrónica de fondos", desc)
	assert.True(t, s.Contains(FormaPago, "01"))
	assert.False(t, s.Contains(FormaPago, "99"))

	// Whole catalog missing on disk.
	_, err = s.Lookup(Moneda, "MXN")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, Moneda, nf.Catalog)
	assert.Empty(t, nf.Code)
	assert.False(t, s.Contains(Moneda, "MXN"))
}

func TestFileStore_LoadsOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "impuesto.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"002": "IVA"}`), 0o644))

	s := NewFileStore(dir)
	assert.True(t, s.Contains(Impuesto, "002"))

	// Replacing the file after first load changes nothing.
	require.NoError(t, os.WriteFile(path, []byte(`{"003": "IEPS"}`), 0o644))
	assert.True(t, s.Contains(Impuesto, "002"))
	assert.False(t, s.Contains(Impuesto, "003"))
}

func TestFileStore_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "moneda.json"), []byte(`{"MXN": `), 0o644))

	s := NewFileStore(dir)
	_, err := s.Lookup(Moneda, "MXN")
	require.Error(t, err)
	var nf *NotFoundError
	assert.False(t, errors.As(err, &nf))
}

// fakeRedis answers Get from an in-memory map, missing keys as redis.Nil.
type fakeRedis struct {
	data map[string]string
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func TestRedisStore(t *testing.T) {
	s := &RedisStore{
		client: &fakeRedis{data: map[string]string{
			"catalogo:forma_pago:01": "Efectivo",
			"catalogo:moneda:MXN":    "Peso Mexicano",
		}},
		timeout: time.Second,
	}

	desc, err := s.Lookup(FormaPago, "01")
	require.NoError(t, err)
	assert.Equal(t, "Efectivo", desc)
	assert.True(t, s.Contains(Moneda, "MXN"))
	assert.False(t, s.Contains(Moneda, "USD"))

	_, err = s.LookupContext(context.Background(), FormaPago, "00")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, FormaPago, nf.Catalog)
	assert.Equal(t, "00", nf.Code)
}

// errRedis fails every call, as a broken connection would.
type errRedis struct{}

func (errRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	return redis.NewStringResult("", errors.New("connection refused"))
}

func TestRedisStore_TransportError(t *testing.T) {
	s := &RedisStore{client: errRedis{}, timeout: time.Second}

	_, err := s.Lookup(FormaPago, "01")
	require.Error(t, err)
	var nf *NotFoundError
	assert.False(t, errors.As(err, &nf))

	// Contains degrades to absence rather than exploding.
	assert.False(t, s.Contains(FormaPago, "01"))
}
