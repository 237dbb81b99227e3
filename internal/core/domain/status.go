package domain

// ApplicationStatus represents the application lifecycle state
type ApplicationStatus string

const (
	AppStatusPending        ApplicationStatus = "PENDING"
	AppStatusPendingPackage ApplicationStatus = "PENDING_PACKAGE"
	AppStatusPaid           ApplicationStatus = "PAID"
	AppStatusCancelled      ApplicationStatus = "CANCELLED"
)

// applicationTransitions is the closed transition table. PAID and
// CANCELLED are terminal: no transition leads out of them.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	AppStatusPending:        {AppStatusPaid, AppStatusCancelled},
	AppStatusPendingPackage: {AppStatusPaid, AppStatusCancelled},
}

// CanTransitionTo checks if a status transition is valid
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsPending reports whether the application is still payable
func (s ApplicationStatus) IsPending() bool {
	return s == AppStatusPending || s == AppStatusPendingPackage
}

// PolicyStatus represents the policy lifecycle state
type PolicyStatus string

const (
	PolicyStatusActive    PolicyStatus = "ACTIVE"
	PolicyStatusCancelled PolicyStatus = "CANCELLED"
	PolicyStatusExpired   PolicyStatus = "EXPIRED"
)

var policyTransitions = map[PolicyStatus][]PolicyStatus{
	PolicyStatusActive: {PolicyStatusCancelled, PolicyStatusExpired},
}

// CanTransitionTo checks if a status transition is valid
func (s PolicyStatus) CanTransitionTo(next PolicyStatus) bool {
	for _, allowed := range policyTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PackageStatus represents the package lifecycle state
type PackageStatus string

const (
	PackageStatusPending            PackageStatus = "PENDING"
	PackageStatusCompleted          PackageStatus = "COMPLETED"
	PackageStatusPartiallyCompleted PackageStatus = "PARTIALLY_COMPLETED"
	PackageStatusCancelled          PackageStatus = "CANCELLED"
)

var packageTransitions = map[PackageStatus][]PackageStatus{
	PackageStatusPending:            {PackageStatusCompleted, PackageStatusPartiallyCompleted, PackageStatusCancelled},
	PackageStatusPartiallyCompleted: {PackageStatusCompleted, PackageStatusCancelled},
}

// CanTransitionTo checks if a status transition is valid
func (s PackageStatus) CanTransitionTo(next PackageStatus) bool {
	for _, allowed := range packageTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsCancellable reports whether the package may still be cancelled.
// A COMPLETED package must be unwound policy by policy instead.
func (s PackageStatus) IsCancellable() bool {
	return s == PackageStatusPending || s == PackageStatusPartiallyCompleted
}
