package languages

// Java covers System.getenv("KEY") and
// System.getenv().getOrDefault("KEY", fallback).
var Java = newDialect(Dialect{
	Name:       "java",
	Extensions: []string{".java", ".kt"},
	Accessors: []Accessor{
		{Object: `System\.getenv`, Open: "(", Close: ")"},
		{Object: `System\.getenv\(\)\.getOrDefault`, Open: "(", Close: ")", DefaultArg: true},
	},
})
