package application

import "github.com/bnema/spo-contact-sync/internal/domain"

type ProfileStatus struct {
	Profile   domain.Profile
	HasSecret bool
	LastRun   *domain.RunSummary
}

func statusFromProfile(profile domain.Profile) ProfileStatus {
	return ProfileStatus{
		Profile:   profile,
		HasSecret: profile.SecretRef != "",
		LastRun:   profile.LastRun,
	}
}
