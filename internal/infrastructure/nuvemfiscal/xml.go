package nuvemfiscal

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// AutorizacaoXML dados extraídos do XML autorizado (procNFe).
type AutorizacaoXML struct {
	ChaveAcesso string // chNFe do protocolo de autorização
	Protocolo   string // nProt
	DataRecbto  string // dhRecbto, como devolvido pela SEFAZ
}

// ParseAutorizacaoXML lê o XML do provedor e extrai a chave de acesso e o
// protocolo de autorização. Usado como checagem de integridade no download:
// a chave do XML deve bater com a chave persistida na nota.
func ParseAutorizacaoXML(xmlBytes []byte) (*AutorizacaoXML, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlBytes); err != nil {
		return nil, fmt.Errorf("nuvemfiscal: XML inválido: %w", err)
	}

	infProt := findAnyPath(doc, "//protNFe/infProt", "//infProt")
	if infProt == nil {
		return nil, fmt.Errorf("nuvemfiscal: XML sem protocolo de autorização (infProt)")
	}

	out := &AutorizacaoXML{}
	if el := infProt.FindElement("chNFe"); el != nil {
		out.ChaveAcesso = strings.TrimSpace(el.Text())
	}
	if el := infProt.FindElement("nProt"); el != nil {
		out.Protocolo = strings.TrimSpace(el.Text())
	}
	if el := infProt.FindElement("dhRecbto"); el != nil {
		out.DataRecbto = strings.TrimSpace(el.Text())
	}
	if out.ChaveAcesso == "" {
		return nil, fmt.Errorf("nuvemfiscal: XML sem chNFe no protocolo")
	}
	return out, nil
}

func findAnyPath(doc *etree.Document, paths ...string) *etree.Element {
	for _, p := range paths {
		if el := doc.FindElement(p); el != nil {
			return el
		}
	}
	return nil
}
