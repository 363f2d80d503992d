// Package catalogfile reads catalog documents: a JSON array of product
// objects, optionally gzip-compressed.
package catalogfile

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"

	"github.com/xenking/shopease/internal/domain/product"
)

// Load reads the catalog document at path. Paths ending in ".gz" are
// decompressed first.
func Load(path string) (*product.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open catalog")
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "gzip reader")
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	c, err := Decode(r)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return c, nil
}

// Decode parses a catalog document and builds a validated catalog.
func Decode(r io.Reader) (*product.Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog")
	}
	return DecodeBytes(data)
}

// DecodeBytes is Decode over an in-memory document.
func DecodeBytes(data []byte) (*product.Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty catalog document")
	}

	var products []product.Product
	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		p, err := decodeProduct(d)
		if err != nil {
			return errors.Wrapf(err, "product %d", len(products))
		}
		products = append(products, p)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}

	c, err := product.NewCatalog(products)
	if err != nil {
		return nil, errors.Wrap(err, "build catalog")
	}
	return c, nil
}

func decodeProduct(d *jx.Decoder) (product.Product, error) {
	var p product.Product
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "id":
			p.ID, err = decodeID(d)
		case "name":
			p.Name, err = d.Str()
		case "description":
			p.Description, err = d.Str()
		case "price":
			p.Price, err = decodeDecimal(d)
		case "category":
			var s string
			if s, err = d.Str(); err == nil {
				p.Category, err = product.ParseCategory(s)
			}
		case "image":
			p.Image, err = d.Str()
		case "rating":
			p.Rating, err = d.Float64()
		case "stock":
			p.Stock, err = d.Int()
		case "featured":
			p.Featured, err = d.Bool()
		default:
			return d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		return nil
	})
	return p, err
}

// decodeID accepts string and integer ids.
func decodeID(d *jx.Decoder) (string, error) {
	if d.Next() == jx.Number {
		n, err := d.Num()
		if err != nil {
			return "", err
		}
		return n.String(), nil
	}
	return d.Str()
}

// decodeDecimal accepts JSON numbers and numeric strings without going
// through float64.
func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	var raw string
	switch d.Next() {
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return decimal.Decimal{}, err
		}
		raw = s
	default:
		n, err := d.Num()
		if err != nil {
			return decimal.Decimal{}, err
		}
		raw = n.String()
	}
	return decimal.NewFromString(raw)
}
