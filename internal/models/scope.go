package models

// AccessScope describes which discipline records a user may see.
//
// Unrestricted scopes see everything. Restricted scopes see the union of
// the listed student IDs and, when ReporterID is set, records the user
// reported themselves. A restricted scope with no student IDs and no
// reporter ID sees nothing.
type AccessScope struct {
	Unrestricted bool
	StudentIDs   []string
	ReporterID   string
}

// UnrestrictedScope grants full visibility.
func UnrestrictedScope() AccessScope {
	return AccessScope{Unrestricted: true}
}

// Empty reports whether a restricted scope matches no records at all.
func (s AccessScope) Empty() bool {
	return !s.Unrestricted && len(s.StudentIDs) == 0 && s.ReporterID == ""
}

// Allows reports whether the scope covers the given student, or the given
// reporter when the scope carries a reporter clause.
func (s AccessScope) Allows(studentNIS, reporterID string) bool {
	if s.Unrestricted {
		return true
	}
	for _, id := range s.StudentIDs {
		if id == studentNIS {
			return true
		}
	}
	return s.ReporterID != "" && s.ReporterID == reporterID
}
