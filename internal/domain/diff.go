package domain

import "sort"

// FieldDelta maps a field name to the value the target must take.
type FieldDelta map[string]string

func (d FieldDelta) Fields() []string {
	fields := make([]string, 0, len(d))
	for field := range d {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	return fields
}

type ContactUpdate struct {
	Key   string
	Delta FieldDelta
}

type DiffPlan struct {
	ToAdd    []Contact
	ToRemove []string
	ToUpdate []ContactUpdate
}

func (p DiffPlan) Empty() bool {
	return len(p.ToAdd) == 0 && len(p.ToRemove) == 0 && len(p.ToUpdate) == 0
}

func (p DiffPlan) Size() int {
	return len(p.ToAdd) + len(p.ToRemove) + len(p.ToUpdate)
}

// ComputeDiff returns the changes that make target match source on every
// field source defines. Fields only the target carries are left alone.
func ComputeDiff(source, target ContactCollection) DiffPlan {
	plan := DiffPlan{}

	for _, key := range source.Keys() {
		wanted := source[key]
		current, ok := target[key]
		if !ok {
			plan.ToAdd = append(plan.ToAdd, wanted.clone())
			continue
		}

		delta := fieldDelta(wanted, current)
		if len(delta) > 0 {
			plan.ToUpdate = append(plan.ToUpdate, ContactUpdate{Key: key, Delta: delta})
		}
	}

	for _, key := range target.Keys() {
		if _, ok := source[key]; !ok {
			plan.ToRemove = append(plan.ToRemove, key)
		}
	}

	return plan
}

func fieldDelta(wanted, current Contact) FieldDelta {
	delta := FieldDelta{}
	for field, value := range wanted.Attributes() {
		value = NormalizeValue(value)
		if value == "" {
			continue
		}

		existing, ok := current.Value(field)
		if ok && NormalizeValue(existing) == value {
			continue
		}
		delta[field] = value
	}

	return delta
}

// ApplyTo simulates the plan against target without touching it: removals,
// then additions, then updates.
func (p DiffPlan) ApplyTo(target ContactCollection) ContactCollection {
	result := target.Clone()

	for _, key := range p.ToRemove {
		delete(result, key)
	}

	for _, contact := range p.ToAdd {
		result[contact.Key] = contact.clone()
	}

	for _, update := range p.ToUpdate {
		contact, ok := result[update.Key]
		if !ok {
			continue
		}
		for field, value := range update.Delta {
			if field == FieldName {
				contact.Name = value
				continue
			}
			contact.Fields[field] = value
		}
		result[update.Key] = contact
	}

	return result
}
