package core

import (
	"strings"

	"github.com/oneconcern/pkgsync/pkg/model"
)

// InstancePlaceholder is substituted by the instance number in values supporting it
const InstancePlaceholder = "%INSTANCE%"

// mergeStrategy tells how an attribute declared by a package is merged into the common settings of an instance
type mergeStrategy int

const (
	// replace scalars and lists, recurse into nested objects
	strategyDefault mergeStrategy = iota

	// fill only when absent: the operator owns the value
	strategyFillAbsent
)

// commonPolicy lists the attributes of common settings which do not follow the default strategy
var commonPolicy = map[string]mergeStrategy{
	"title":    strategyFillAbsent,
	"schedule": strategyFillAbsent,
	"mode":     strategyFillAbsent,
	"loglevel": strategyFillAbsent,
	"enabled":  strategyFillAbsent,
	"custom":   strategyFillAbsent,
}

// valueRewriters adapt a replaced value to the instance it is merged into
var valueRewriters = map[string]func(value interface{}, instance string) interface{}{
	"dataFolder": substituteInstance,
}

func substituteInstance(value interface{}, instance string) interface{} {
	s, ok := value.(string)
	if !ok || !strings.Contains(s, InstancePlaceholder) {
		return value
	}
	return strings.ReplaceAll(s, InstancePlaceholder, instance)
}

// strategyFor yields the merge strategy applying to an attribute of common settings
func strategyFor(attr string) mergeStrategy {
	return commonPolicy[attr]
}

// MergeCommon merges the common settings declared by a package into the common settings of an instance.
//
// The target is modified in place and returned (a nil target yields a new map). Additions are never
// modified: merged values are copies.
func MergeCommon(target, additions map[string]interface{}, instance string) map[string]interface{} {
	if target == nil {
		target = make(map[string]interface{}, len(additions))
	}

	for attr, value := range additions {
		if strategyFor(attr) == strategyFillAbsent {
			if _, exists := target[attr]; !exists {
				target[attr] = model.CopyValue(value)
			}
			continue
		}

		nested, isMap := model.AsMap(value)
		if !isMap {
			replaced := model.CopyValue(value)
			if rewrite, ok := valueRewriters[attr]; ok {
				replaced = rewrite(replaced, instance)
			}
			target[attr] = replaced
			continue
		}

		current, ok := model.AsMap(target[attr])
		if !ok {
			current = make(map[string]interface{}, len(nested))
		}
		target[attr] = MergeCommon(current, nested, instance)
	}
	return target
}

// MergeNative adds the native settings declared by a package to the native settings of an instance.
//
// Existing values are never replaced: only absent attributes are added, nested objects are merged recursively.
// The target is modified in place and returned (a nil target yields a new map). Additions are never modified.
func MergeNative(target, additions map[string]interface{}) map[string]interface{} {
	if target == nil {
		target = make(map[string]interface{}, len(additions))
	}

	for attr, value := range additions {
		current, exists := target[attr]
		if !exists {
			target[attr] = model.CopyValue(value)
			continue
		}

		nested, isMap := model.AsMap(value)
		if !isMap {
			continue
		}
		if current == nil {
			target[attr] = MergeNative(nil, nested)
			continue
		}
		if currentMap, ok := model.AsMap(current); ok {
			target[attr] = MergeNative(currentMap, nested)
		}
	}
	return target
}
