package dashboard

import "html/template"

// pageTemplate is the single-page dashboard. Charts are plain HTML bars;
// the map is Leaflet fed by the markers JSON.
var pageTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Seattle Events</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
  body { font-family: sans-serif; margin: 2rem; max-width: 70rem; }
  h2 { margin-top: 2rem; }
  .bar-row { display: flex; align-items: center; margin: 2px 0; }
  .bar-label { width: 14rem; font-size: 0.85rem; }
  .bar { background: #4682b4; height: 1rem; margin-right: 0.5rem; }
  .bar-count { font-size: 0.85rem; }
  table { border-collapse: collapse; width: 100%; font-size: 0.85rem; }
  th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
  .warning { color: #b22222; font-size: 0.85rem; }
  #map { height: 600px; margin-top: 1rem; }
  form { margin: 1rem 0; }
  label { margin-right: 1rem; }
</style>
</head>
<body>
<h1>Seattle Events</h1>

<h2>What category of events are most common in Seattle?</h2>
{{range .Categories}}
<div class="bar-row">
  <span class="bar-label">{{.Category}}</span>
  <div class="bar" style="width: {{.Count}}0px"></div>
  <span class="bar-count">{{.Count}}</span>
</div>
{{end}}

<h2>What month has the most number of events?</h2>
{{range .Months}}
<div class="bar-row">
  <span class="bar-label">{{.Label}}</span>
  <div class="bar" style="width: {{.Count}}0px"></div>
  <span class="bar-count">{{.Count}}</span>
</div>
{{end}}

<h2>What day of the week has the most number of events?</h2>
{{range .Weekdays}}
<div class="bar-row">
  <span class="bar-label">{{.Day}}</span>
  <div class="bar" style="width: {{.Count}}0px"></div>
  <span class="bar-count">{{.Count}}</span>
</div>
{{end}}

<h2>Filter events</h2>
<form method="get" action="/">
  <label>Category:
    <select name="category">
      <option>All</option>
      {{range .CategoryOptions}}<option {{if eq . $.Filter.Category}}selected{{end}}>{{.}}</option>{{end}}
    </select>
  </label>
  <label>From: <input type="date" name="from" value="{{if .Filter.DateFrom}}{{.Filter.DateFrom.Format "2006-01-02"}}{{end}}"></label>
  <label>To: <input type="date" name="to" value="{{if .Filter.DateTo}}{{.Filter.DateTo.Format "2006-01-02"}}{{end}}"></label>
  <label>Location:
    <select name="location">
      <option>All</option>
      {{range .LocationOptions}}<option {{if eq . $.Filter.Location}}selected{{end}}>{{.}}</option>{{end}}
    </select>
  </label>
  <label>Weather:
    <select name="weather">
      <option>All</option>
      {{range .WeatherOptions}}<option {{if eq . $.Filter.Weather}}selected{{end}}>{{.}}</option>{{end}}
    </select>
  </label>
  <button type="submit">Apply</button>
</form>

{{range .Warnings}}<p class="warning">{{.}}</p>{{end}}

<table>
  <tr>
    <th>Title</th><th>Date</th><th>Venue</th><th>Category</th>
    <th>Location</th><th>Weather</th><th>Min</th><th>Max</th><th>Wind chill</th><th></th>
  </tr>
  {{range .Rows}}
  <tr>
    <td><a href="{{.URL}}">{{.Title}}</a></td>
    <td>{{.Date}}</td>
    <td>{{.Venue}}</td>
    <td>{{.Category}}</td>
    <td>{{.Location}}</td>
    <td>{{.Weather}}</td>
    <td>{{.MinTemp}}</td>
    <td>{{.MaxTemp}}</td>
    <td>{{.WindChill}}</td>
    <td><a href="/api/events/ics?url={{.URL}}">ics</a></td>
  </tr>
  {{end}}
</table>

<h2>Event Locations on Map</h2>
<div id="map"></div>
<script>
  var map = L.map('map').setView([47.6504529, -122.3499861], 12);
  L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
    attribution: '&copy; OpenStreetMap contributors'
  }).addTo(map);
  var markers = {{.MarkersJSON}};
  markers.forEach(function (m) {
    L.marker([m.lat, m.lon]).addTo(map).bindPopup(m.title + ' - ' + m.date);
  });
</script>
</body>
</html>
`))
