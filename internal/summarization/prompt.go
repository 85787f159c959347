package summarization

import (
	"strings"

	"vidsum/internal/services/ollama"
)

const transcriptionPlaceholder = "{{TRANSCRIPTION}}"

const promptTemplate = `# RÔLE
Tu es un expert en analyse et synthèse de contenu audio transcrit.

# CONTEXTE
La transcription suivante provient d'un enregistrement audio et peut contenir :
- Erreurs de transcription automatique
- Fautes d'orthographe ou de frappe
- Mots mal interprétés ou déformés
- Phrases incomplètes ou mal structurées

# TRANSCRIPTION À ANALYSER
{{TRANSCRIPTION}}

# TÂCHE
Produis une synthèse structurée en corrigeant les erreurs de transcription et en extrayant l'information pertinente.

# CONTRAINTES
- Langue : français exclusivement
- Longueur : 300-500 mots (adapter selon la richesse du contenu)
- Ton : objectif et professionnel
- Structure : sections claires avec hiérarchie

# FORMAT DE SORTIE OBLIGATOIRE
## [Titre principal du sujet traité]

### 🎯 Points clés
- [Point essentiel 1]
- [Point essentiel 2]
- [Point essentiel 3]

### 📋 Informations importantes
[Développement des éléments factuels, données, exemples concrets mentionnés]

### 💡 Analyse et implications
[Interprétation des enjeux, conséquences, liens logiques entre les idées]

### ✅ Synthèse finale
[Résumé condensé des messages principaux et conclusion]

# INSTRUCTIONS SPÉCIFIQUES
1. Corrige automatiquement les erreurs évidentes de transcription
2. Ignore les répétitions et hésitations typiques de l'oral
3. Identifie le fil conducteur principal du discours
4. Privilégie les faits et arguments concrets
5. Maintiens la nuance et les subtilités du propos original`

// BuildPrompt embeds transcription verbatim in the summary prompt.
func BuildPrompt(transcription string) string {
	return strings.Replace(promptTemplate, transcriptionPlaceholder, transcription, 1)
}

// DefaultOptions returns the static generation options sent with every request.
func DefaultOptions() ollama.GenerateOptions {
	return ollama.GenerateOptions{
		Temperature:   0.4,
		TopP:          0.9,
		TopK:          25,
		RepeatPenalty: 1.2,
		NumPredict:    3000,
		NumCtx:        16384,
		NumThread:     6,
		NumGPU:        0,
		Mirostat:      2,
		MirostatTau:   4.0,
		MirostatEta:   0.08,
		TFSZ:          1.0,
		TypicalP:      0.95,
	}
}
