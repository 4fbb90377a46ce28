package responder

// Template pools for assembled reply text. Greetings split into personal
// (with a {nome} placeholder) and impersonal variants.
var (
	greetingsPersonal = []string{
		"Olá, {nome}!",
		"Oi, {nome}!",
	}

	greetingsImpersonal = []string{
		"Olá!",
	}

	thanksPool = []string{
		"Muito obrigada pelo seu comentário tão gentil!",
		"Agradeço imensamente suas palavras!",
		"Muito obrigada pelo seu feedback!",
		"Agradeço muito pelo seu comentário.",
		"Muito obrigada pelas palavras tão carinhosas!",
		"Agradeço pelo carinho e pela confiança!",
	}

	satisfactionPool = []string{
		"Fico feliz em saber que você se sentiu bem atendida.",
		"Fico muito contente em saber que o atendimento foi positivo para você.",
		"É muito gratificante saber que você ficou satisfeita com o atendimento.",
		"Fico feliz que tenha se sentido acolhida e confortável durante a consulta.",
		"Saber que você se sentiu segura e bem cuidada me deixa muito contente.",
		"Fico feliz em saber que consegui esclarecer suas dúvidas e proporcionar um atendimento atencioso.",
	}

	availabilityPool = []string{
		"Estou sempre à disposição para o que precisar!",
		"Estarei à disposição sempre que precisar!",
		"Conte comigo sempre que precisar.",
		"Estou sempre à disposição para oferecer um cuidado atencioso e de qualidade.",
		"Estarei sempre aqui para cuidar de você com atenção e dedicação.",
	}
)

// qualityResponses maps a detected quality to its acknowledgement sentence.
var qualityResponses = map[string]string{
	"atenciosa":         "Fico feliz que tenha percebido a atenção dedicada ao seu atendimento.",
	"educada":           "Agradeço por reconhecer o cuidado e respeito no atendimento.",
	"explicar_detalhes": "Fico contente que minhas explicações tenham sido claras e detalhadas.",
	"profissional":      "É gratificante saber que percebeu o profissionalismo no atendimento.",
	"pontual":           "Prezo sempre pela pontualidade e atenção com cada paciente.",
	"competente":        "Meu compromisso é sempre oferecer um atendimento de qualidade e baseado nas melhores práticas médicas.",
	"cuidadosa":         "Estarei sempre aqui para cuidar com atenção e responsabilidade.",
	"eficiente":         "Meu compromisso é sempre oferecer um cuidado eficiente e de excelência.",
}

// qualityKeywords maps a quality to the comment substrings that signal it.
var qualityKeywords = map[string][]string{
	"atenciosa":         {"atenciosa", "atenção", "atenta", "atencioso"},
	"educada":           {"educada", "educado", "gentil", "simpática"},
	"explicar_detalhes": {"explica", "explicou", "detalhes", "esclareceu"},
	"profissional":      {"profissional", "competente", "qualificada"},
	"pontual":           {"pontual", "pontualidade"},
	"cuidadosa":         {"cuidadosa", "cuidado", "humana"},
	"eficiente":         {"eficiente", "excelente", "ótimo", "ótima"},
}

// qualityOrder keeps quality detection deterministic regardless of map
// iteration order.
var qualityOrder = []string{
	"atenciosa",
	"educada",
	"explicar_detalhes",
	"profissional",
	"pontual",
	"cuidadosa",
	"eficiente",
}

const signature = "Atenciosamente,\nDra. Bruna Gomes"
