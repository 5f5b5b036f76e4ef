package languages

// JavaScript covers process.env.KEY, process.env['KEY'] and computed
// process.env[expr] reads in JavaScript and TypeScript. `||` and `??`
// after a read supply a fallback.
var JavaScript = newDialect(Dialect{
	Name:       "javascript",
	Extensions: []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts"},
	Accessors: []Accessor{
		{Object: `process\.env`, Dotted: true, Open: "[", Close: "]"},
	},
	Fallback: `\|\||\?\?`,
})
