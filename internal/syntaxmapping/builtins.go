package syntaxmapping

// builtinRules mirrors the kind of small built-in glob table real highlighter
// tools ship (e.g. bat's syntax_mapping.rs); this subset covers the
// end-to-end scenarios of §8.
var builtinRules = []struct {
	glob   string
	target MappingTarget
}{
	{"PKGBUILD", MappingTarget{Kind: MapTo, Name: "Bourne Again Shell (bash)"}},
	{"*.bashrc", MappingTarget{Kind: MapTo, Name: "Bourne Again Shell (bash)"}},
	{"CMakeLists.txt", MappingTarget{Kind: MapTo, Name: "CMake"}},
	{"*.cmake", MappingTarget{Kind: MapTo, Name: "CMake"}},
	{"Makefile", MappingTarget{Kind: MapTo, Name: "Makefile"}},
	{"*.mk", MappingTarget{Kind: MapTo, Name: "Makefile"}},
	{"*.rs", MappingTarget{Kind: MapTo, Name: "Rust"}},
	{"*.go", MappingTarget{Kind: MapTo, Name: "Go"}},
	{"*.py", MappingTarget{Kind: MapTo, Name: "Python"}},
	{"*.md", MappingTarget{Kind: MapTo, Name: "Markdown"}},
	{"*.json", MappingTarget{Kind: MapTo, Name: "JSON"}},
	{"*.yaml", MappingTarget{Kind: MapTo, Name: "YAML"}},
	{"*.yml", MappingTarget{Kind: MapTo, Name: "YAML"}},
}

// builtinIgnorableSuffixes mirrors bat's default ignored-suffix list.
var builtinIgnorableSuffixes = []string{
	".gz", ".bak", ".orig", ".swp", ".dpkg-dist", ".dpkg-old", ".pacnew",
}
