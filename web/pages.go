package web

import (
	"html/template"
	"net/http"
)

// converterPage describes one rendered landing page.
type converterPage struct {
	Slug        string
	Title       string
	Description string
	Endpoint    string
}

var converterPages = []converterPage{
	{Slug: "image", Title: "Image Converter", Description: "Convert images between PNG, JPG, GIF, BMP, TIFF and WebP.", Endpoint: "/convert/image"},
	{Slug: "audio", Title: "Audio Converter", Description: "Convert audio between MP3, WAV, OGG, FLAC, M4A and AAC.", Endpoint: "/convert/audio"},
	{Slug: "video", Title: "Video Converter", Description: "Convert video between MP4, AVI, MOV, MKV and WebM.", Endpoint: "/convert/video"},
	{Slug: "text", Title: "Document Converter", Description: "Convert documents between TXT, Markdown, DOCX, ODT, HTML and PDF.", Endpoint: "/convert/text"},
	{Slug: "time", Title: "Timezone Converter", Description: "Re-express a timestamp in another timezone.", Endpoint: "/convert/time"},
	{Slug: "weight", Title: "Weight Converter", Description: "Convert between kilograms, grams, pounds, ounces and tonnes.", Endpoint: "/convert/weight"},
	{Slug: "length", Title: "Length Converter", Description: "Convert between metric and imperial lengths.", Endpoint: "/convert/length"},
	{Slug: "volume", Title: "Volume Converter", Description: "Convert between litres, gallons, pints, cups and cubic metres.", Endpoint: "/convert/volume"},
	{Slug: "temperature", Title: "Temperature Converter", Description: "Convert between Celsius, Fahrenheit and Kelvin.", Endpoint: "/convert/temperature"},
	{Slug: "currency", Title: "Currency Converter", Description: "Convert amounts between currencies at the latest exchange rate.", Endpoint: "/convert/currency"},
	{Slug: "speed", Title: "Speed Converter", Description: "Convert between m/s, km/h, mph, knots and ft/s.", Endpoint: "/convert/speed"},
	{Slug: "electrical", Title: "Electrical Converter", Description: "Convert voltage, current and resistance units.", Endpoint: "/convert/voltage"},
	{Slug: "filesize", Title: "File Size Converter", Description: "Convert between bytes, KB, MB, GB, TB and PB.", Endpoint: "/convert/filesize"},
	{Slug: "area", Title: "Area Converter", Description: "Convert between square metres, hectares, acres and square feet.", Endpoint: "/convert/area"},
	{Slug: "pressure", Title: "Pressure Converter", Description: "Convert between pascals, bar, psi, atm and mmHg.", Endpoint: "/convert/pressure"},
	{Slug: "color", Title: "Color Converter", Description: "Convert colors between hex, RGB, HSL and CMYK.", Endpoint: "/convert/color"},
	{Slug: "power", Title: "Power Converter", Description: "Convert between watts, kilowatts, horsepower and BTU/h.", Endpoint: "/convert/power"},
	{Slug: "data-transfer", Title: "Data Transfer Converter", Description: "Convert between bps, Kbps, Mbps, Gbps and byte-per-second rates.", Endpoint: "/convert/data_transfer"},
	{Slug: "frequency", Title: "Frequency Converter", Description: "Convert between Hz, kHz, MHz, GHz and RPM.", Endpoint: "/convert/frequency"},
	{Slug: "energy", Title: "Energy Converter", Description: "Convert between joules, calories, watt-hours and BTU.", Endpoint: "/api/convert/energy"},
	{Slug: "angle", Title: "Angle Converter", Description: "Convert between degrees, radians, gradians and turns.", Endpoint: "/api/convert/angle"},
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} | Morph</title>
    <meta name="description" content="{{.Description}}">
    <meta name="robots" content="index, follow">
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: system-ui, sans-serif; background: #f7f7f5; color: #1a1a1a; line-height: 1.6; }
        nav { border-bottom: 1px solid #ddd; padding: 1rem 2rem; background: #fff; }
        .logo { font-weight: 600; text-decoration: none; color: #1a1a1a; }
        .container { max-width: 720px; margin: 0 auto; padding: 3rem 2rem; }
        h1 { font-size: 2.2rem; margin-bottom: 0.75rem; }
        .subtitle { color: #666; margin-bottom: 2rem; }
        .endpoint { font-family: monospace; background: #eee; padding: 0.25rem 0.5rem; border-radius: 4px; }
        footer { text-align: center; padding: 2rem; color: #999; font-size: 0.85rem; }
    </style>
</head>
<body>
    <nav><a href="/" class="logo">Morph</a></nav>
    <div class="container">
        <h1>{{.Title}}</h1>
        <p class="subtitle">{{.Description}}</p>
        <p>POST to <span class="endpoint">{{.Endpoint}}</span> to convert.</p>
    </div>
    <footer>Morph — one service, every conversion.</footer>
</body>
</html>`

const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Morph — conversion service</title>
    <meta name="description" content="Convert documents, images, audio, video, units, colors, currencies and timezones.">
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: system-ui, sans-serif; background: #f7f7f5; color: #1a1a1a; line-height: 1.6; }
        nav { border-bottom: 1px solid #ddd; padding: 1rem 2rem; background: #fff; }
        .logo { font-weight: 600; text-decoration: none; color: #1a1a1a; }
        .container { max-width: 720px; margin: 0 auto; padding: 3rem 2rem; }
        h1 { font-size: 2.2rem; margin-bottom: 1.5rem; }
        ul { list-style: none; }
        li { padding: 0.6rem 0; border-bottom: 1px solid #e5e5e5; }
        a { color: #1a1a1a; text-decoration: none; }
        a:hover { text-decoration: underline; }
        .desc { color: #666; font-size: 0.9rem; }
    </style>
</head>
<body>
    <nav><a href="/" class="logo">Morph</a></nav>
    <div class="container">
        <h1>Converters</h1>
        <ul>
        {{range .}}
            <li><a href="/{{.Slug}}-converter">{{.Title}}</a><div class="desc">{{.Description}}</div></li>
        {{end}}
        </ul>
    </div>
</body>
</html>`

var (
	pageTmpl  = template.Must(template.New("page").Parse(pageTemplate))
	indexTmpl = template.Must(template.New("index").Parse(indexTemplate))
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, converterPages); err != nil {
		s.cfg.Logger.Error("render index", "error", err)
	}
}

func (s *Server) handlePage(page converterPage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		if err := pageTmpl.Execute(w, page); err != nil {
			s.cfg.Logger.Error("render page", "error", err, "slug", page.Slug)
		}
	}
}
