package kargopress

// Well-known keys of the settings table. Anything else stored there is
// opaque string data read by direct key lookup.
const (
	SettingSiteTitle      = "site_title"
	SettingContactEmail   = "contact_email"
	SettingContactPhone   = "contact_phone"
	SettingContactAddress = "contact_address"
	SettingFacebookURL    = "facebook_url"
	SettingInstagramURL   = "instagram_url"
	SettingLinkedInURL    = "linkedin_url"
	SettingTwitterURL     = "twitter_url"
)

// SiteSettings is the typed view over the well-known settings keys that
// every public page receives.
type SiteSettings struct {
	SiteTitle      string
	ContactEmail   string
	ContactPhone   string
	ContactAddress string
	FacebookURL    string
	InstagramURL   string
	LinkedInURL    string
	TwitterURL     string
}

// LoadSiteSettings reads the settings table into its typed form. Missing
// keys come back as empty strings.
func LoadSiteSettings(s *Store) (SiteSettings, error) {
	all, err := s.AllSettings()
	if err != nil {
		return SiteSettings{}, err
	}
	return SiteSettings{
		SiteTitle:      all[SettingSiteTitle],
		ContactEmail:   all[SettingContactEmail],
		ContactPhone:   all[SettingContactPhone],
		ContactAddress: all[SettingContactAddress],
		FacebookURL:    all[SettingFacebookURL],
		InstagramURL:   all[SettingInstagramURL],
		LinkedInURL:    all[SettingLinkedInURL],
		TwitterURL:     all[SettingTwitterURL],
	}, nil
}

// Save writes every field back to the settings table.
func (ss SiteSettings) Save(s *Store) error {
	pairs := map[string]string{
		SettingSiteTitle:      ss.SiteTitle,
		SettingContactEmail:   ss.ContactEmail,
		SettingContactPhone:   ss.ContactPhone,
		SettingContactAddress: ss.ContactAddress,
		SettingFacebookURL:    ss.FacebookURL,
		SettingInstagramURL:   ss.InstagramURL,
		SettingLinkedInURL:    ss.LinkedInURL,
		SettingTwitterURL:     ss.TwitterURL,
	}
	for k, v := range pairs {
		if err := s.SetSetting(k, v); err != nil {
			return err
		}
	}
	return nil
}
