package snippets

import (
	"math/rand"
	"slices"

	"github.com/stigoleg/activity-sim/internal/window"
)

var webSearches = []string{
	".tsx", ".jsx", ".ts", ".js", ".html", ".css", ".scss", ".php",
	"use", "get", "set", "handle", "create", "fetch", "update", "delete",
	"Button", "Modal", "Form", "Input", "Card", "Header", "Footer", "Nav",
	"Layout", "Page", "Component", "Hook", "Context", "Provider",
	"index.tsx", "App.tsx", "layout.tsx", "page.tsx", "types.ts",
	"main", "app", "index", "utils", "helpers", "validation", "sidebar",
	"init", "setup", "load", "save", "render", "format", "parse", "toggle",
}

var extraSearches = []string{
	".py", ".java", ".go", ".rs", ".rb", ".cs", ".sql", ".json",
	".yaml", ".yml", ".toml", ".md", ".sh", "Dockerfile", "Makefile",
	"handler", "service", "repository", "config", "test", "README",
}

var codePatterns = []string{
	"const HomePage = () => {",
	"const UserProfile = ({ user }: { user: User }) => {",
	"const [isLoading, setIsLoading] = useState<boolean>(false)",
	"useEffect(() => { fetchUserData() }, [userId])",
	"const handleSubmit = async (e: FormEvent<HTMLFormElement>) => {",
	"interface User { id: string; name: string; email: string }",
	"return ( <div className=\"container mx-auto px-4\">",
	"return isLoading ? <LoadingSpinner /> : <UserProfile user={user} />",
	"const filtered = products.filter(p => p.name.includes(query))",
	"try { const res = await api.fetchUser(userId); setUser(res.data) }",
	"if err != nil { return fmt.Errorf(\"load config: %w\", err) }",
	"for i, item := range items {",
	"def handle_request(self, request):",
}

// SearchPatterns returns quick-open queries suited to app. Cursor sessions
// lean on web sources; VS Code and others get the wider list.
func SearchPatterns(app window.App) []string {
	if app == window.AppCursor {
		return slices.Clone(webSearches)
	}
	return slices.Concat(webSearches, extraSearches)
}

// CodePatterns returns one-line fragments that are typed and then erased.
func CodePatterns() []string {
	return slices.Clone(codePatterns)
}

// Pick returns a random entry of pool, or "" for an empty pool.
func Pick(rnd *rand.Rand, pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[rnd.Intn(len(pool))]
}
