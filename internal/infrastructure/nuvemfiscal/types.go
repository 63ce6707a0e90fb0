package nuvemfiscal

import "github.com/shopspring/decimal"

// Ambientes do provedor.
const (
	AmbienteProducao    = "producao"
	AmbienteHomologacao = "homologacao"
)

// Status devolvidos pelo provedor para documentos fiscais.
const (
	ProviderStatusPendente    = "pendente"
	ProviderStatusProcessando = "processando"
	ProviderStatusAutorizado  = "autorizado"
	ProviderStatusRejeitado   = "rejeitado"
	ProviderStatusCancelado   = "cancelado"
	ProviderStatusErro        = "erro"
)

// Documento resposta normalizada do provedor para emissão/consulta.
type Documento struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	ChaveAcesso string `json:"chave_acesso,omitempty"`
	Numero      string `json:"numero,omitempty"`
	Mensagem    string `json:"mensagem,omitempty"` // motivo de rejeição/erro
	Raw         string `json:"-"`                  // corpo cru da resposta, persistido na nota
}

// ── NF-e (materiais) ──────────────────────────────────────────────────────────
// A API do provedor espelha os campos do layout da NF-e em JSON.

// NfePedidoEmissao corpo de POST /nfe.
type NfePedidoEmissao struct {
	Ambiente string `json:"ambiente"`
	InfNfe   InfNfe `json:"infNFe"`
}

// InfNfe bloco principal da nota.
type InfNfe struct {
	Versao string   `json:"versao"`
	Ide    NfeIde   `json:"ide"`
	Emit   NfeEmit  `json:"emit"`
	Dest   *NfeDest `json:"dest,omitempty"`
	Det    []NfeDet `json:"det"`
	Total  NfeTotal `json:"total"`
}

// NfeIde identificação da operação.
type NfeIde struct {
	CUF      string `json:"cUF"`      // código IBGE da UF do emitente
	NatOp    string `json:"natOp"`    // natureza da operação
	Mod      string `json:"mod"`      // modelo 55
	Serie    string `json:"serie"`
	TpNF     int    `json:"tpNF"`     // 1 = saída
	IdDest   int    `json:"idDest"`   // 1 = interna
	CMunFG   string `json:"cMunFG"`   // município de fato gerador
	TpImp    int    `json:"tpImp"`    // 1 = DANFE retrato
	TpEmis   int    `json:"tpEmis"`   // 1 = normal
	FinNFe   int    `json:"finNFe"`   // 1 = normal
	IndFinal int    `json:"indFinal"` // 1 = consumidor final
	IndPres  int    `json:"indPres"`  // 1 = presencial
}

// NfeEmit emitente.
type NfeEmit struct {
	CNPJ      string      `json:"CNPJ"`
	XNome     string      `json:"xNome"`
	IE        string      `json:"IE,omitempty"`
	CRT       int         `json:"CRT"` // 1 = Simples Nacional
	EnderEmit NfeEndereco `json:"enderEmit"`
}

// NfeDest destinatário.
type NfeDest struct {
	CNPJ      string       `json:"CNPJ,omitempty"`
	CPF       string       `json:"CPF,omitempty"`
	XNome     string       `json:"xNome"`
	IndIEDest int          `json:"indIEDest"` // 9 = não contribuinte
	EnderDest *NfeEndereco `json:"enderDest,omitempty"`
}

// NfeEndereco endereço de emitente/destinatário.
type NfeEndereco struct {
	XLgr    string `json:"xLgr"`
	Nro     string `json:"nro"`
	XBairro string `json:"xBairro"`
	CMun    string `json:"cMun"`
	XMun    string `json:"xMun"`
	UF      string `json:"UF"`
	CEP     string `json:"CEP"`
}

// NfeDet linha de item.
type NfeDet struct {
	NItem   int        `json:"nItem"`
	Prod    NfeProd    `json:"prod"`
	Imposto NfeImposto `json:"imposto"`
}

// NfeProd dados do produto.
type NfeProd struct {
	CProd  string          `json:"cProd"`
	XProd  string          `json:"xProd"`
	NCM    string          `json:"NCM"`
	CFOP   string          `json:"CFOP"`
	UCom   string          `json:"uCom"`
	QCom   decimal.Decimal `json:"qCom"`
	VUnCom decimal.Decimal `json:"vUnCom"`
	VProd  decimal.Decimal `json:"vProd"`
	IndTot int             `json:"indTot"` // 1 = compõe o total da nota
}

// NfeImposto grupos de tributação da linha (Simples Nacional).
type NfeImposto struct {
	ICMS   NfeICMS   `json:"ICMS"`
	PIS    NfePIS    `json:"PIS"`
	COFINS NfeCOFINS `json:"COFINS"`
}

// NfeICMS grupo ICMSSN102 (Simples Nacional sem permissão de crédito).
type NfeICMS struct {
	ICMSSN102 *NfeICMSSN102 `json:"ICMSSN102,omitempty"`
}

// NfeICMSSN102 tributação pelo Simples Nacional, CSOSN 102.
type NfeICMSSN102 struct {
	Orig  string `json:"orig"`  // 0 = nacional
	CSOSN string `json:"CSOSN"` // 102
}

// NfePIS grupo PIS não tributado.
type NfePIS struct {
	PISNT *NfeTributoNT `json:"PISNT,omitempty"`
}

// NfeCOFINS grupo COFINS não tributado.
type NfeCOFINS struct {
	COFINSNT *NfeTributoNT `json:"COFINSNT,omitempty"`
}

// NfeTributoNT CST de operação não tributada.
type NfeTributoNT struct {
	CST string `json:"CST"` // 07 = isenta
}

// NfeTotal totais da nota.
type NfeTotal struct {
	ICMSTot NfeICMSTot `json:"ICMSTot"`
}

// NfeICMSTot totais de ICMS (zerados no Simples Nacional CSOSN 102).
type NfeICMSTot struct {
	VBC    decimal.Decimal `json:"vBC"`
	VICMS  decimal.Decimal `json:"vICMS"`
	VProd  decimal.Decimal `json:"vProd"`
	VNF    decimal.Decimal `json:"vNF"`
	VDesc  decimal.Decimal `json:"vDesc"`
	VFrete decimal.Decimal `json:"vFrete"`
}

// ── NFS-e (serviços) ──────────────────────────────────────────────────────────
// DPS: Declaração de Prestação de Serviço (padrão nacional).

// DpsPedidoEmissao corpo de POST /nfse/dps.
type DpsPedidoEmissao struct {
	Ambiente string `json:"ambiente"`
	InfDPS   InfDPS `json:"infDPS"`
}

// InfDPS bloco principal da declaração.
type InfDPS struct {
	TpAmb   int        `json:"tpAmb"` // 1 = produção, 2 = homologação
	DhEmi   string     `json:"dhEmi"` // RFC3339
	Serie   string     `json:"serie"`
	Prest   DpsPrest   `json:"prest"`
	Toma    *DpsToma   `json:"toma,omitempty"`
	Serv    DpsServ    `json:"serv"`
	Valores DpsValores `json:"valores"`
}

// DpsPrest prestador.
type DpsPrest struct {
	CNPJ    string      `json:"CNPJ"`
	IM      string      `json:"IM,omitempty"`
	RegTrib *DpsRegTrib `json:"regTrib,omitempty"`
}

// DpsRegTrib regimes de tributação do prestador.
type DpsRegTrib struct {
	OpSimpNac  int    `json:"opSimpNac"`            // 1 = optante Simples Nacional
	RegEspTrib string `json:"regEspTrib,omitempty"` // código de regime especial quando configurado
}

// DpsToma tomador do serviço.
type DpsToma struct {
	CNPJ  string       `json:"CNPJ,omitempty"`
	CPF   string       `json:"CPF,omitempty"`
	XNome string       `json:"xNome"`
	End   *DpsEndereco `json:"end,omitempty"`
}

// DpsEndereco endereço do tomador.
type DpsEndereco struct {
	XLgr    string `json:"xLgr"`
	Nro     string `json:"nro"`
	XBairro string `json:"xBairro"`
	CMun    string `json:"cMun"`
	UF      string `json:"UF"`
	CEP     string `json:"CEP"`
}

// DpsServ descrição do serviço prestado.
type DpsServ struct {
	XDescServ string    `json:"xDescServ"`
	CServ     *DpsCServ `json:"cServ,omitempty"`
	Obra      *DpsObra  `json:"obra,omitempty"`
}

// DpsCServ código de tributação nacional do serviço.
type DpsCServ struct {
	CTribNac string `json:"cTribNac,omitempty"`
}

// DpsObra cadastro da obra (construção civil).
type DpsObra struct {
	CObra string `json:"cObra"` // CNO
}

// DpsValores valores do serviço e tributos.
type DpsValores struct {
	VServPrest DpsVServPrest `json:"vServPrest"`
	Trib       DpsTrib       `json:"trib"`
}

// DpsVServPrest valor do serviço prestado.
type DpsVServPrest struct {
	VServ decimal.Decimal `json:"vServ"`
}

// DpsTrib tributação municipal e federal.
type DpsTrib struct {
	TribMun DpsTribMun  `json:"tribMun"`
	TribFed *DpsTribFed `json:"tribFed,omitempty"`
}

// DpsTribMun ISSQN. Retenção aparece apenas quando o toggle do tenant está habilitado.
type DpsTribMun struct {
	TribISSQN  int              `json:"tribISSQN"` // 1 = operação tributável
	PAliq      decimal.Decimal  `json:"pAliq"`
	TpRetISSQN int              `json:"tpRetISSQN"` // 1 = não retido, 2 = retido pelo tomador
	VRetISS    *decimal.Decimal `json:"vRetISS,omitempty"`
}

// DpsTribFed retenções federais; campos presentes apenas quando habilitados.
type DpsTribFed struct {
	VRetIRRF   *decimal.Decimal `json:"vRetIRRF,omitempty"`
	VRetCSLL   *decimal.Decimal `json:"vRetCSLL,omitempty"`
	VRetPis    *decimal.Decimal `json:"vRetPis,omitempty"`
	VRetCofins *decimal.Decimal `json:"vRetCofins,omitempty"`
	VRetCP     *decimal.Decimal `json:"vRetCP,omitempty"` // INSS
}

// ── Empresa ───────────────────────────────────────────────────────────────────

// EmpresaPedido corpo de cadastro/atualização em /empresas.
type EmpresaPedido struct {
	CNPJ               string          `json:"cpf_cnpj"`
	RazaoSocial        string          `json:"razao_social"`
	NomeFantasia       string          `json:"nome_fantasia,omitempty"`
	InscricaoEstadual  string          `json:"inscricao_estadual,omitempty"`
	InscricaoMunicipal string          `json:"inscricao_municipal,omitempty"`
	Endereco           EmpresaEndereco `json:"endereco"`
}

// EmpresaEndereco endereço cadastral da empresa.
type EmpresaEndereco struct {
	Logradouro      string `json:"logradouro"`
	Numero          string `json:"numero"`
	Bairro          string `json:"bairro"`
	CodigoMunicipio string `json:"codigo_municipio"`
	CidadeNome      string `json:"cidade_nome"`
	UF              string `json:"uf"`
	CEP             string `json:"cep"`
}
