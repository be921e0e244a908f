package metrics

import (
	"fmt"
	"path"
	"reflect"
)

// metricAdder allocates a measure for a tagged field
type metricAdder func(field interface{}, metric, group string, tags map[string]string) interface{}

var tagNames = map[string]string{
	"metric":      "metric",
	"unit":        "unit",
	"group":       "group",
	"description": "description",
	"extraviews":  "views",
	"tags":        "groupings",
}

func equalType(a, b interface{}) bool {
	return reflect.TypeOf(a) == reflect.TypeOf(b)
}

// scanStruct walks a pointer to a struct and allocates a measure for every field tagged with "metric".
//
// Nested structs extend the path of their metrics with their "group" tag.
// Fields that are neither tagged measures nor structs are ignored.
func scanStruct(parent string, adder metricAdder, m interface{}) {
	rv := reflect.ValueOf(m)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("scanStruct requires a pointer to a struct, got: %T", m))
	}
	scanValue(parent, adder, rv.Elem())
}

func scanValue(parent string, adder metricAdder, sv reflect.Value) {
	st := sv.Type()
	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		fv := sv.Field(i)
		if !fv.CanSet() {
			continue
		}

		tags := fieldTags(field)
		metric := tags["metric"]

		switch {
		case metric == "" && fv.Kind() == reflect.Struct:
			scanValue(path.Join(parent, tags["group"]), adder, fv)
		case metric == "" && fv.Kind() == reflect.Ptr && fv.Type().Elem().Kind() == reflect.Struct:
			if fv.IsNil() {
				fv.Set(reflect.New(fv.Type().Elem()))
			}
			scanValue(path.Join(parent, tags["group"]), adder, fv.Elem())
		case metric != "" && fv.Kind() == reflect.Ptr:
			if allocated := adder(reflect.New(fv.Type().Elem()).Interface(), metric, path.Join(parent, tags["group"]), tags); allocated != nil {
				fv.Set(reflect.ValueOf(allocated))
			}
		}
	}
}

// fieldTags decodes the struct tags of a field:
//   - metric: the metric name
//   - group: an additional path to the metric (e.g. root/path/{group}/{metric})
//   - unit: the unit of the measure (count, bytes, sumbytes, milliseconds)
//   - description: the description of the metric and its views
//   - extraviews: additional views with alternate aggregations
//   - tags: the tag keys retained by views
func fieldTags(field reflect.StructField) map[string]string {
	tags := make(map[string]string, len(tagNames))
	for key, name := range tagNames {
		if value, ok := field.Tag.Lookup(key); ok {
			tags[name] = value
		}
	}
	return tags
}
