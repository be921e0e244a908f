package model

import (
	"fmt"
	"sort"

	jsoniter "github.com/json-iterator/go"
)

// PackageDescriptor is the parsed schema of a package: declared settings, flags and auxiliary objects.
//
// A descriptor is loaded once per operation and must be treated as read-only.
type PackageDescriptor struct {
	Common  map[string]interface{}
	Native  map[string]interface{}
	Objects []Object
}

type rawDescriptor struct {
	Common  map[string]interface{} `json:"common"`
	Native  map[string]interface{} `json:"native"`
	Objects jsoniter.RawMessage    `json:"objects"`
}

// ParseDescriptor decodes a package descriptor.
//
// Auxiliary objects may be declared either as a list of objects carrying their "_id",
// or as a map keyed by ID.
func ParseDescriptor(data []byte) (*PackageDescriptor, error) {
	var raw rawDescriptor
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.Common == nil {
		return nil, fmt.Errorf("descriptor has no common section")
	}

	d := &PackageDescriptor{
		Common: raw.Common,
		Native: raw.Native,
	}

	objects, err := parseObjects(raw.Objects)
	if err != nil {
		return nil, err
	}
	d.Objects = objects
	return d, nil
}

func parseObjects(raw jsoniter.RawMessage) ([]Object, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var list []Object
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var keyed map[string]Object
	if err := json.Unmarshal(raw, &keyed); err != nil {
		return nil, fmt.Errorf("objects must be a list or a map of objects: %w", err)
	}
	ids := make([]string, 0, len(keyed))
	for id := range keyed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	list = make([]Object, 0, len(keyed))
	for _, id := range ids {
		obj := keyed[id]
		if obj == nil {
			continue
		}
		if obj.ID() == "" {
			obj.SetID(id)
		}
		list = append(list, obj)
	}
	return list, nil
}

// Name of the package
func (d *PackageDescriptor) Name() string {
	return d.str("name")
}

// Version of the package
func (d *PackageDescriptor) Version() string {
	return d.str("version")
}

// WWWDontUpload tells that the www tree of this package must never be uploaded
func (d *PackageDescriptor) WWWDontUpload() bool {
	return d != nil && isTrue(d.Common["wwwDontUpload"])
}

// EraseOnUpload tells that previously stored content must be erased before uploading
func (d *PackageDescriptor) EraseOnUpload() bool {
	return d != nil && isTrue(d.Common["eraseOnUpload"])
}

// RestartAdapters lists the packages or instances to restart whenever this package content is uploaded.
//
// The declaration may either be a single string or a list of strings.
func (d *PackageDescriptor) RestartAdapters() []string {
	if d == nil {
		return nil
	}
	switch typed := d.Common["restartAdapters"].(type) {
	case string:
		if typed == "" {
			return nil
		}
		return []string{typed}
	case []interface{}:
		refs := make([]string, 0, len(typed))
		for _, v := range typed {
			if s, ok := v.(string); ok {
				refs = append(refs, s)
			}
		}
		return refs
	default:
		return nil
	}
}

func (d *PackageDescriptor) str(key string) string {
	if d == nil {
		return ""
	}
	s, _ := d.Common[key].(string)
	return s
}
