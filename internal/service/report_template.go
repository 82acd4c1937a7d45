package service

import (
	"html/template"
	"time"
)

type reportView struct {
	*Report
	loc *time.Location
}

func (v reportView) Stamp(t time.Time) string {
	return t.In(v.loc).Format("02/01/2006 15:04")
}

func (v reportView) Deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>Relatório - {{.Patient.Name}}</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
h1 { margin-bottom: 0; }
h2 { border-bottom: 1px solid #ccc; padding-bottom: 4px; margin-top: 1.6em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ddd; padding: 4px 8px; text-align: left; font-size: 0.9em; }
.muted { color: #777; }
@media print { body { margin: 0; } }
</style>
</head>
<body>
<h1>{{.Patient.Name}}</h1>
<p class="muted">Leito {{.Patient.BedNumber}} · Mãe: {{.Patient.MotherName}} · Nascimento: {{.Patient.DateOfBirth}} · Registro: {{.Patient.WardCode}}</p>

<h2>Dispositivos</h2>
{{if .Active.Devices}}<table>
<tr><th>Nome</th><th>Local</th><th>Inserção</th><th>Retirada</th></tr>
{{range .Active.Devices}}<tr><td>{{.Name}}</td><td>{{.Location}}</td><td>{{.StartDate}}</td><td>{{$.Deref .RemovalDate}}</td></tr>
{{end}}</table>{{else}}<p class="muted">Nenhum dispositivo.</p>{{end}}

<h2>Medicações</h2>
{{if .Active.Medications}}<table>
<tr><th>Nome</th><th>Dose</th><th>Início</th><th>Fim</th></tr>
{{range .Active.Medications}}<tr><td>{{.Name}}</td><td>{{.Dosage}}</td><td>{{.StartDate}}</td><td>{{$.Deref .EndDate}}</td></tr>
{{end}}</table>{{else}}<p class="muted">Nenhuma medicação.</p>{{end}}

<h2>Exames</h2>
{{if .Active.Exams}}<table>
<tr><th>Nome</th><th>Data</th><th>Resultado</th><th>Observação</th></tr>
{{range .Active.Exams}}<tr><td>{{.Name}}</td><td>{{.Date}}</td><td>{{.Result}}</td><td>{{.Observation}}</td></tr>
{{end}}</table>{{else}}<p class="muted">Nenhum exame.</p>{{end}}

<h2>Cirurgias</h2>
{{if .Surgeries}}<table>
<tr><th>Procedimento</th><th>Cirurgião</th><th>Data</th></tr>
{{range .Surgeries}}<tr><td>{{.Name}}</td><td>{{.Surgeon}}</td><td>{{.Date}}</td></tr>
{{end}}</table>{{else}}<p class="muted">Nenhuma cirurgia.</p>{{end}}

<h2>Escala CAP-D</h2>
{{with .LatestCapd}}<p><strong>Pontuação {{.Scale.Score}}</strong> em {{$.Stamp .Scale.EvaluatedAt}}</p>
<p>{{.Result.SedationTitle}} ({{.Result.SedationSubtitle}}) · {{.Result.DeliriumTitle}}</p>
{{else}}<p class="muted">Nenhuma avaliação.</p>{{end}}

<h2>Alertas ativos</h2>
{{if .ActiveAlerts}}<table>
<tr><th>Descrição</th><th>Responsável</th><th>Prazo</th></tr>
{{range .ActiveAlerts}}<tr><td>{{.Description}}</td><td>{{.Responsible}}</td><td>{{$.Stamp .Deadline}}</td></tr>
{{end}}</table>{{else}}<p class="muted">Nenhum alerta ativo.</p>{{end}}

<h2>Histórico</h2>
{{range .Timeline}}<h3>{{.Date}}</h3>
<ul>{{range .Entries}}<li>{{if .HasTime}}{{$.Stamp .Timestamp}} · {{end}}{{.Description}}</li>{{end}}</ul>
{{else}}<p class="muted">Nenhum evento registrado.</p>{{end}}

<p class="muted">Gerado em {{.Stamp .GeneratedAt}}</p>
</body>
</html>
`))
