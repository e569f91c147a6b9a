package robots

// RobotsResponse captures the host-level facts from a robots.txt fetch that
// outlive the raw bytes: the host it applies to and any Sitemap: directives
// it advertised. Allow/disallow/crawl-delay evaluation is done directly
// against *robotstxt.RobotsData in Decide, not against this type. It exists
// for caching and sitemap discovery only.
type RobotsResponse struct {
	Host     string
	Sitemaps []string
}
