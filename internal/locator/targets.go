package locator

// Target is a platform the backend is built for. Triple follows the naming the
// build scripts give the bundled binary (name-<triple>[.exe]).
type Target struct {
	GOOS   string
	GOARCH string
	Triple string
}

// Targets is the fixed, ordered table of supported builds.
var Targets = []Target{
	{GOOS: "darwin", GOARCH: "arm64", Triple: "aarch64-apple-darwin"},
	{GOOS: "darwin", GOARCH: "amd64", Triple: "x86_64-apple-darwin"},
	{GOOS: "windows", GOARCH: "amd64", Triple: "x86_64-pc-windows-msvc"},
	{GOOS: "linux", GOARCH: "arm64", Triple: "aarch64-unknown-linux-gnu"},
	{GOOS: "linux", GOARCH: "amd64", Triple: "x86_64-unknown-linux-gnu"},
}

// NameVariants lists the binary names to try for goos: the generic name
// first, then one platform-tagged name per supported target of that OS.
func NameVariants(base, goos string) []string {
	ext := ""
	if goos == "windows" {
		ext = ".exe"
	}

	names := []string{base + ext}
	for _, t := range Targets {
		if t.GOOS != goos {
			continue
		}
		names = append(names, base+"-"+t.Triple+ext)
	}
	return names
}

// TripleFor returns the target triple for a GOOS/GOARCH pair, or "" when the
// pair is not a supported build.
func TripleFor(goos, goarch string) string {
	for _, t := range Targets {
		if t.GOOS == goos && t.GOARCH == goarch {
			return t.Triple
		}
	}
	return ""
}
