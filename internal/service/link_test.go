package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"vidshort/internal/domain"
	"vidshort/internal/registry"
	"vidshort/internal/service/mocks"
	"vidshort/internal/storage/postgres"
)

type LinkServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	links      *mocks.MockLinkStore
	accounts   *mocks.MockAccountStore
	dispatcher *mocks.MockDispatcher
	resolver   *mocks.MockResolver
	pipeline   *mocks.MockViewPipeline
	codes      *mocks.MockCodeGenerator

	service *LinkService
}

func (s *LinkServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.links = mocks.NewMockLinkStore(s.ctrl)
	s.accounts = mocks.NewMockAccountStore(s.ctrl)
	s.dispatcher = mocks.NewMockDispatcher(s.ctrl)
	s.resolver = mocks.NewMockResolver(s.ctrl)
	s.pipeline = mocks.NewMockViewPipeline(s.ctrl)
	s.codes = mocks.NewMockCodeGenerator(s.ctrl)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s.service = NewLinkService(s.links, s.accounts, s.dispatcher, s.resolver, s.pipeline, s.codes, logger)
}

func (s *LinkServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestLinkServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LinkServiceTestSuite))
}

func teraboxEntry() registry.Entry {
	return registry.Entry{Descriptor: domain.PlatformDescriptor{Name: "TeraBox", Enabled: true}}
}

func (s *LinkServiceTestSuite) TestCreateLink() {
	ctx := context.Background()
	sourceURL := "https://terabox.com/s/1abcDEF"

	s.dispatcher.EXPECT().Dispatch(sourceURL).Return(teraboxEntry(), nil)
	s.accounts.EXPECT().Ensure(ctx, int64(7)).Return(nil)
	s.links.EXPECT().NextID(ctx).Return(int64(42), nil)
	s.codes.EXPECT().Generate(int64(42)).Return("k3x9Qm", nil)
	s.links.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, link *domain.ShortLink) error {
			s.Equal(int64(42), link.ID)
			s.Equal("k3x9Qm", link.ShortCode)
			s.Equal(int64(7), link.OwnerID)
			s.Equal(sourceURL, link.OriginalURL)
			s.Equal("TeraBox", link.VideoPlatform)
			s.True(link.Active)
			return nil
		},
	)

	link, err := s.service.CreateLink(ctx, 7, sourceURL)

	s.NoError(err)
	s.Equal("k3x9Qm", link.ShortCode)
}

func (s *LinkServiceTestSuite) TestCreateLink_UnsupportedURL() {
	ctx := context.Background()

	s.dispatcher.EXPECT().Dispatch("https://example.com/page").Return(
		registry.Entry{}, domain.NewExtractError(domain.ErrUnsupportedURL, "no platform matches this url"))

	link, err := s.service.CreateLink(ctx, 7, "https://example.com/page")

	s.Error(err)
	s.Nil(link)
	s.True(domain.IsKind(err, domain.ErrUnsupportedURL))
}

func (s *LinkServiceTestSuite) TestGetLink_NotFound() {
	ctx := context.Background()

	s.links.EXPECT().GetByShortCode(ctx, "missing").Return(nil, postgres.ErrNotFound)

	link, err := s.service.GetLink(ctx, "missing")

	s.ErrorIs(err, ErrLinkNotFound)
	s.Nil(link)
}

func (s *LinkServiceTestSuite) TestRedirect_CountedView() {
	ctx := context.Background()
	link := &domain.ShortLink{ID: 42, ShortCode: "k3x9Qm", OwnerID: 7, Views: 10, Earnings: 0.05}
	visitor := domain.Visitor{IP: "1.2.3.4", UserAgent: "Mozilla/5.0"}

	s.links.EXPECT().GetByShortCode(ctx, "k3x9Qm").Return(link, nil)
	s.resolver.EXPECT().ResolveForRedirect(gomock.Any(), link).
		Return("https://d.terabox.com/file.mp4?sign=x", nil)
	s.pipeline.EXPECT().Record(ctx, link, visitor).
		Return(&domain.ViewOutcome{Counted: true, Earning: 0.005}, nil)

	result, err := s.service.Redirect(ctx, "k3x9Qm", visitor)

	s.NoError(err)
	s.Equal("https://d.terabox.com/file.mp4?sign=x", result.TargetURL)
	s.True(result.Counted)
	s.Equal(int64(11), result.Views)
	s.InDelta(0.055, result.Earnings, 1e-9)
}

func (s *LinkServiceTestSuite) TestRedirect_UncountedViewStillRedirects() {
	ctx := context.Background()
	link := &domain.ShortLink{ID: 42, ShortCode: "k3x9Qm", Views: 10}
	visitor := domain.Visitor{IP: "1.2.3.4", UserAgent: "Googlebot"}

	s.links.EXPECT().GetByShortCode(ctx, "k3x9Qm").Return(link, nil)
	s.resolver.EXPECT().ResolveForRedirect(gomock.Any(), link).Return("https://target", nil)
	s.pipeline.EXPECT().Record(ctx, link, visitor).
		Return(&domain.ViewOutcome{Reason: "bot user agent"}, nil)

	result, err := s.service.Redirect(ctx, "k3x9Qm", visitor)

	s.NoError(err)
	s.False(result.Counted)
	s.Equal(int64(10), result.Views)
}

func (s *LinkServiceTestSuite) TestRedirect_DegradedResolutionStillRedirects() {
	ctx := context.Background()
	link := &domain.ShortLink{ID: 42, ShortCode: "k3x9Qm", OriginalURL: "https://terabox.com/s/1abcDEF"}
	visitor := domain.Visitor{IP: "1.2.3.4", UserAgent: "Mozilla/5.0"}

	s.links.EXPECT().GetByShortCode(ctx, "k3x9Qm").Return(link, nil)
	// the resolver degrades to the original URL alongside the error
	s.resolver.EXPECT().ResolveForRedirect(gomock.Any(), link).
		Return(link.OriginalURL, domain.NewExtractError(domain.ErrConnection, "origin unreachable"))
	s.pipeline.EXPECT().Record(ctx, link, visitor).
		Return(&domain.ViewOutcome{Counted: true, Earning: 0.005}, nil)

	result, err := s.service.Redirect(ctx, "k3x9Qm", visitor)

	s.NoError(err)
	s.Equal(link.OriginalURL, result.TargetURL)
	s.True(result.Counted)
}

func (s *LinkServiceTestSuite) TestRedirect_PipelineFailureNeverBlocksVisitor() {
	ctx := context.Background()
	link := &domain.ShortLink{ID: 42, ShortCode: "k3x9Qm", Views: 10}
	visitor := domain.Visitor{IP: "1.2.3.4", UserAgent: "Mozilla/5.0"}

	s.links.EXPECT().GetByShortCode(ctx, "k3x9Qm").Return(link, nil)
	s.resolver.EXPECT().ResolveForRedirect(gomock.Any(), link).Return("https://target", nil)
	s.pipeline.EXPECT().Record(ctx, link, visitor).Return(nil, errors.New("db deadlock"))

	result, err := s.service.Redirect(ctx, "k3x9Qm", visitor)

	s.NoError(err)
	s.Equal("https://target", result.TargetURL)
	s.False(result.Counted)
	s.Equal(int64(10), result.Views)
}

func (s *LinkServiceTestSuite) TestRedirect_UnknownCode() {
	ctx := context.Background()

	s.links.EXPECT().GetByShortCode(ctx, "nope").Return(nil, postgres.ErrNotFound)

	result, err := s.service.Redirect(ctx, "nope", domain.Visitor{})

	s.ErrorIs(err, ErrLinkNotFound)
	s.Nil(result)
}
