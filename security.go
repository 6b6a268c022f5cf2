package uploadkit

// secureRule is one step of the ordered media classification. The first
// rule that matches decides; later rules are never consulted.
type secureRule struct {
	name    string
	matches func(s Settings, o UploadOptions) bool
	secure  bool
}

// mediaRules is evaluated top to bottom. Order is load-bearing: theme,
// site-setting and avatar exemptions must win over the global secure
// media policy, and the policy kill-switch must win over everything
// that would mark an upload secure.
var mediaRules = []secureRule{
	{
		name:    "theme assets are public",
		matches: func(_ Settings, o UploadOptions) bool { return o.ForTheme },
		secure:  false,
	},
	{
		name:    "site settings are public",
		matches: func(_ Settings, o UploadOptions) bool { return o.ForSiteSetting },
		secure:  false,
	},
	{
		name:    "avatars are public",
		matches: func(_ Settings, o UploadOptions) bool { return o.Type == TypeAvatar },
		secure:  false,
	},
	{
		name:    "secure media disabled",
		matches: func(s Settings, _ UploadOptions) bool { return !s.SecureMediaEnabled },
		secure:  false,
	},
	{
		name:    "private message attachment",
		matches: func(_ Settings, o UploadOptions) bool { return o.ForPrivateMessage },
		secure:  true,
	},
	{
		// Composer uploads are provisionally secure: whether the post
		// they end up in is public is unknown at upload time.
		name:    "composer placement unknown",
		matches: func(_ Settings, o UploadOptions) bool { return o.Type == TypeComposer },
		secure:  true,
	},
	{
		name:    "login required site",
		matches: func(s Settings, _ UploadOptions) bool { return s.LoginRequired },
		secure:  true,
	},
}

// classifySecure decides whether the artifact requires authenticated or
// signed access. Two independent inputs feed the flag: the ordered
// secure-media rules, and the attachment rule gating anonymous
// downloads of non-image files. Either one marks the artifact secure.
func classifySecure(s Settings, o UploadOptions, isImage bool) bool {
	media := false
	for _, rule := range mediaRules {
		if rule.matches(s, o) {
			media = rule.secure
			break
		}
	}

	// Images are exempt from the attachment rule, as are theme and
	// site-setting assets which are public by definition.
	attachment := s.PreventAnonymousDownloads &&
		!isImage && !o.ForTheme && !o.ForSiteSetting

	return media || attachment
}
