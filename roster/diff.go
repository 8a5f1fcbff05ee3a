package roster

// Diff partitions records into those whose key is not in existing (to be added) and those
// whose key is (skipped). Source order is preserved and duplicates within records are not
// collapsed.
func Diff(records []Credential, existing map[Key]bool) (added []Credential, skipped []Credential) {
	added = []Credential{}
	skipped = []Credential{}

	for _, record := range records {
		if existing[record.Key()] {
			skipped = append(skipped, record)
		} else {
			added = append(added, record)
		}
	}

	return added, skipped
}
