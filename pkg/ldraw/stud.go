package ldraw

var studFiles = map[string]bool{
	"stud2.dat":          true,
	"stud6.dat":          true,
	"stud6a.dat":         true,
	"stud7.dat":          true,
	"stud10.dat":         true,
	"stud13.dat":         true,
	"stud15.dat":         true,
	"stud20.dat":         true,
	"studa.dat":          true,
	"teton.dat":          true,
	"studtente-logo.dat": true,
}

var studLogoFiles = map[string]bool{
	"logo3.dat":     true,
	"logo4.dat":     true,
	"logo5.dat":     true,
	"logotente.dat": true,
}

// Stud bases that have "-logoN" variants.
var logoStudBases = []string{"stud", "stud2", "stud6", "stud6a", "stud7", "stud10", "stud13", "stud15", "stud20", "studa"}

func init() {
	for _, base := range logoStudBases {
		for _, v := range []string{"3", "4", "5"} {
			studFiles[base+"-logo"+v+".dat"] = true
		}
	}
}

// IsStud reports whether filename names a stud primitive. Stud logos count as studs.
func IsStud(filename string) bool {
	name := BaseName(filename)
	return studLogoFiles[name] || studFiles[name]
}

// IsStudLogo reports whether filename names a stud logo primitive.
func IsStudLogo(filename string) bool {
	return studLogoFiles[BaseName(filename)]
}

// LogoStudAlias maps a logo stud file onto the plain stud name it replaces.
type LogoStudAlias struct {
	File  string // file to load, e.g. "stud-logo4.dat"
	Alias string // name it is registered under, e.g. "stud.dat"
}

// LogoStudAliases returns the substitutions used when logo studs are enabled.
// version is "3", "4" or "5".
func LogoStudAliases(version string) []LogoStudAlias {
	aliases := make([]LogoStudAlias, 0, len(logoStudBases)+1)
	for _, base := range logoStudBases {
		aliases = append(aliases, LogoStudAlias{File: base + "-logo" + version + ".dat", Alias: base + ".dat"})
	}
	return append(aliases, LogoStudAlias{File: "studtente-logo.dat", Alias: "s/teton.dat"})
}
