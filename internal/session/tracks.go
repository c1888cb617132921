package session

// Track is a practice field offered by the client.
type Track struct {
	Key   string
	Label string
}

// Tracks is the built-in catalog. The first entry is the default.
var Tracks = []Track{
	{"frontend", "Frontend Developer"},
	{"backend", "Backend Developer"},
	{"fullstack", "Full-Stack Developer"},
	{"mobile", "Mobile Developer"},
	{"devops", "DevOps Engineer"},
	{"data-analyst", "Data Analyst"},
	{"data-science", "Data Scientist"},
	{"ml", "Machine Learning Engineer"},
	{"qa", "QA Engineer"},
	{"security", "Security Engineer"},
	{"uiux", "UI/UX Designer"},
	{"product", "Product Manager"},
}

// LookupTrack returns the track with key. Unknown keys are treated as a
// custom track labelled with the key itself.
func LookupTrack(key string) (Track, bool) {
	for _, t := range Tracks {
		if t.Key == key {
			return t, true
		}
	}
	return Track{Key: key, Label: key}, false
}
