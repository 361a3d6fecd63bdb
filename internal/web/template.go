package web

// pageTemplate is deliberately plain; layout and styling live upstream of
// this repository and only the aggregated data matters here.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Tijs Teulings</title>
  <meta name="description" content="Software engineer building apps and contributing to open source">
</head>
<body>
  <header>
    <h1>Tijs Teulings</h1>
    <p>Software engineer building apps and contributing to open source</p>
  </header>

  {{if .Result.Posts}}
  <section>
    <h2>Recent Posts</h2>
    <ul>
      {{range .Result.Posts}}
      <li>
        <a href="{{.URL}}">{{.Title}}</a>
        <time>{{formatDate .DateModified}}</time>
        {{if .Summary}}<p>{{.Summary}}</p>{{end}}
      </li>
      {{end}}
    </ul>
  </section>
  {{end}}

  {{if .Result.Checkins}}
  <section>
    <h2>Recent Check-ins</h2>
    <ul>
      {{range .Result.Checkins}}
      <li>
        <a href="{{permalink .}}">{{.Text}}</a>
        <time>{{formatDate .CreatedAt}}</time>
        <span>{{location .Address}}</span>
      </li>
      {{end}}
    </ul>
  </section>
  {{end}}

  {{if .Result.Books}}
  <section>
    <h2>Reading</h2>
    <ul>
      {{range .Result.Books}}
      <li>
        {{with coverURL $.Result.PDSURL .}}<img src="{{.}}" alt="" width="60">{{end}}
        <strong>{{.Value.Title}}</strong>
        {{if .Value.Authors}}<span>by {{.Value.Authors}}</span>{{end}}
        <em>{{statusLabel .Value.Status}}</em>
      </li>
      {{end}}
    </ul>
  </section>
  {{end}}

  {{if .Result.PinnedRepos}}
  <section>
    <h2>Open Source</h2>
    <ul>
      {{range .Result.PinnedRepos}}
      <li>
        <a href="{{.HTMLURL}}">{{.Name}}</a>
        {{if .Description}}<p>{{.Description}}</p>{{end}}
        {{if .Language}}<span>{{.Language}}</span>{{end}}
      </li>
      {{end}}
    </ul>
  </section>
  {{end}}
</body>
</html>
`
