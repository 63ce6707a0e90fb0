package fiscal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grupovoltera/erp-api/internal/application/dto"
	"github.com/grupovoltera/erp-api/internal/domain"
	"github.com/grupovoltera/erp-api/internal/domain/entity"
	"github.com/grupovoltera/erp-api/internal/domain/repository"
	"github.com/grupovoltera/erp-api/internal/infrastructure/nuvemfiscal"
	"github.com/grupovoltera/erp-api/pkg/logger"
)

// EmitInvoiceUseCase emite uma nota fiscal a partir de uma proposta:
//
//	valida config → snapshot de itens e tomador → PROCESSANDO →
//	payload → provedor → AUTORIZADA | PROCESSANDO | ERRO
//
// A linha local é criada antes da chamada ao provedor: qualquer falha de rede
// ou rejeição termina em status ERRO com a mensagem gravada, nunca em nota
// perdida.
type EmitInvoiceUseCase struct {
	configRepo   repository.FiscalConfigRepository
	proposalRepo repository.ProposalRepository
	clientRepo   repository.ClientRepository
	invoiceRepo  repository.FiscalInvoiceRepository
	provider     FiscalProvider
	ambiente     string // producao | homologacao
	log          *logger.Logger
}

// NewEmitInvoiceUseCase constrói o caso de uso.
func NewEmitInvoiceUseCase(
	configRepo repository.FiscalConfigRepository,
	proposalRepo repository.ProposalRepository,
	clientRepo repository.ClientRepository,
	invoiceRepo repository.FiscalInvoiceRepository,
	provider FiscalProvider,
	ambiente string,
	log *logger.Logger,
) *EmitInvoiceUseCase {
	return &EmitInvoiceUseCase{
		configRepo:   configRepo,
		proposalRepo: proposalRepo,
		clientRepo:   clientRepo,
		invoiceRepo:  invoiceRepo,
		provider:     provider,
		ambiente:     ambiente,
		log:          log,
	}
}

// Emit emite a nota do tipo pedido (NFE ou NFSE) para a proposta.
func (uc *EmitInvoiceUseCase) Emit(ctx context.Context, companyID string, in dto.EmitInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.ProposalID == "" {
		return nil, fmt.Errorf("%w: proposal_id é obrigatório", domain.ErrInvalidInput)
	}
	if in.Tipo != entity.InvoiceTipoNFE && in.Tipo != entity.InvoiceTipoNFSE {
		return nil, fmt.Errorf("%w: tipo deve ser NFE ou NFSE", domain.ErrInvalidInput)
	}

	// 1) Config do tenant: checagens fail-fast antes de qualquer escrita
	cfg, err := uc.configRepo.GetByCompanyID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if cfg == nil || !cfg.CredenciaisCompletas() || !cfg.CadastroCompleto() {
		return nil, fmt.Errorf("%w: complete cadastro e credenciais do provedor antes de emitir", domain.ErrConfigIncompleta)
	}
	if cfg.CertificadoArquivo == "" {
		return nil, fmt.Errorf("%w: certificado digital A1 não configurado", domain.ErrConfigIncompleta)
	}
	if in.Tipo == entity.InvoiceTipoNFE && !cfg.EmissaoNfeHabilitada {
		return nil, fmt.Errorf("%w: emissão de NF-e não está habilitada", domain.ErrConfigIncompleta)
	}
	if in.Tipo == entity.InvoiceTipoNFSE && !cfg.EmissaoNfseHabilitada {
		return nil, fmt.Errorf("%w: emissão de NFS-e não está habilitada", domain.ErrConfigIncompleta)
	}

	// 2) Proposta e itens roteáveis para o tipo pedido
	proposal, err := uc.proposalRepo.GetByID(ctx, in.ProposalID)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, domain.ErrNotFound
	}
	if proposal.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	itens := itensDoTipo(proposal.Items, in.Tipo)
	if len(itens) == 0 {
		return nil, fmt.Errorf("%w: proposta não tem itens para %s", domain.ErrInvalidInput, in.Tipo)
	}

	// 3) Snapshot do tomador (a proposta pode mudar depois; a nota não)
	cliente, err := uc.clientRepo.GetByID(ctx, proposal.ClientID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var total decimal.Decimal
	for _, it := range itens {
		total = total.Add(it.Total)
	}

	inv := &entity.FiscalInvoice{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		ProposalID: proposal.ID,
		Tipo:       in.Tipo,
		Status:     entity.InvoiceStatusProcessando,
		ValorTotal: total,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if cliente != nil {
		inv.TomadorNome = cliente.Nome
		inv.TomadorDocumento = cliente.Documento
		inv.TomadorEndereco = cliente.EnderecoResumido()
	}

	// 4) Persiste a nota e o snapshot imutável dos itens. Criada a linha,
	// qualquer falha rebaixa para ERRO — a nota nunca fica em PROCESSANDO.
	if err := uc.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}
	snapshot := make([]*entity.FiscalInvoiceItem, 0, len(itens))
	for _, it := range itens {
		item := &entity.FiscalInvoiceItem{
			ID:          uuid.New().String(),
			InvoiceID:   inv.ID,
			Descricao:   it.Descricao,
			ServiceType: it.ServiceType,
			NCM:         it.NCM,
			Quantidade:  it.Quantity,
			ValorUnit:   it.UnitPrice,
			Total:       it.Total,
		}
		if err := uc.invoiceRepo.CreateItem(ctx, item); err != nil {
			uc.marcarErro(ctx, inv, err)
			return nil, err
		}
		snapshot = append(snapshot, item)
	}

	// 5) Payload + submissão
	doc, err := uc.submit(ctx, cfg, proposal, cliente, in.Tipo, now)
	if err != nil {
		uc.marcarErro(ctx, inv, err)
		uc.log.Warn().Str("invoice_id", inv.ID).Str("tipo", in.Tipo).Err(err).Msg("emissão falhou")
		return nil, err
	}

	// 6) Resposta do provedor → estado local
	aplicarDocumento(inv, doc)
	inv.UpdatedAt = time.Now()
	if err := uc.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("invoice_id", inv.ID).
		Str("tipo", in.Tipo).
		Str("status", inv.Status).
		Str("provider_id", inv.ProviderID).
		Msg("nota emitida")

	return toInvoiceResponse(inv, snapshot), nil
}

// marcarErro rebaixa a nota para ERRO gravando a causa; usada para toda
// falha depois que a linha PROCESSANDO foi criada.
func (uc *EmitInvoiceUseCase) marcarErro(ctx context.Context, inv *entity.FiscalInvoice, cause error) {
	inv.Status = entity.InvoiceStatusErro
	inv.MensagemErro = cause.Error()
	inv.UpdatedAt = time.Now()
	if err := uc.invoiceRepo.Update(ctx, inv); err != nil {
		uc.log.Error().Str("invoice_id", inv.ID).Err(err).Msg("não foi possível persistir o status ERRO")
	}
}

// submit monta o payload do tipo e chama o provedor.
func (uc *EmitInvoiceUseCase) submit(
	ctx context.Context,
	cfg *entity.FiscalConfig,
	proposal *entity.Proposal,
	cliente *entity.Client,
	tipo string,
	agora time.Time,
) (*nuvemfiscal.Documento, error) {
	if tipo == entity.InvoiceTipoNFSE {
		pedido, err := nuvemfiscal.BuildNfsePayload(cfg, proposal, cliente, uc.ambiente, agora)
		if err != nil {
			return nil, err
		}
		return uc.provider.EmitirNfse(ctx, cfg, pedido)
	}
	pedido, err := nuvemfiscal.BuildNfePayload(cfg, proposal, cliente, uc.ambiente)
	if err != nil {
		return nil, err
	}
	return uc.provider.EmitirNfe(ctx, cfg, pedido)
}

// itensDoTipo filtra os itens da proposta que roteiam para o tipo da nota.
func itensDoTipo(items []entity.ProposalItem, tipo string) []entity.ProposalItem {
	var out []entity.ProposalItem
	for _, it := range items {
		if (tipo == entity.InvoiceTipoNFE && it.EhMaterial()) ||
			(tipo == entity.InvoiceTipoNFSE && it.EhServico()) {
			out = append(out, it)
		}
	}
	return out
}

// aplicarDocumento traduz o status do provedor para o estado local da nota.
func aplicarDocumento(inv *entity.FiscalInvoice, doc *nuvemfiscal.Documento) {
	inv.ProviderID = doc.ID
	inv.RespostaProvedor = doc.Raw
	if doc.ChaveAcesso != "" {
		inv.ChaveAcesso = doc.ChaveAcesso
	}
	if doc.Numero != "" && doc.Numero != "0" {
		inv.NumeroNota = doc.Numero
	}

	switch doc.Status {
	case nuvemfiscal.ProviderStatusAutorizado:
		inv.Status = entity.InvoiceStatusAutorizada
		inv.MensagemErro = ""
	case nuvemfiscal.ProviderStatusRejeitado, nuvemfiscal.ProviderStatusErro:
		inv.Status = entity.InvoiceStatusErro
		inv.MensagemErro = doc.Mensagem
	case nuvemfiscal.ProviderStatusCancelado:
		inv.Status = entity.InvoiceStatusCancelada
	default:
		// pendente/processando: aguarda o polling de status
		inv.Status = entity.InvoiceStatusProcessando
	}
}

func toInvoiceResponse(inv *entity.FiscalInvoice, items []*entity.FiscalInvoiceItem) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:                 inv.ID,
		CompanyID:          inv.CompanyID,
		ProposalID:         inv.ProposalID,
		Tipo:               inv.Tipo,
		Status:             inv.Status,
		TomadorNome:        inv.TomadorNome,
		TomadorDocumento:   inv.TomadorDocumento,
		TomadorEndereco:    inv.TomadorEndereco,
		ValorTotal:         inv.ValorTotal,
		ChaveAcesso:        inv.ChaveAcesso,
		NumeroNota:         inv.NumeroNota,
		MensagemErro:       inv.MensagemErro,
		MotivoCancelamento: inv.MotivoCancelamento,
		CreatedAt:          inv.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          inv.UpdatedAt.Format(time.RFC3339),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:          it.ID,
			Descricao:   it.Descricao,
			ServiceType: it.ServiceType,
			NCM:         it.NCM,
			Quantidade:  it.Quantidade,
			ValorUnit:   it.ValorUnit,
			Total:       it.Total,
		})
	}
	return resp
}
